package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id       TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		birth_date        DATE NOT NULL,
		address           TEXT NOT NULL,
		document          TEXT NOT NULL UNIQUE,
		email             TEXT NOT NULL,
		phone             TEXT NOT NULL,
		email_optin       BOOLEAN NOT NULL,
		phone_optin       BOOLEAN NOT NULL,
		registration_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id     TEXT PRIMARY KEY,
		customer_id        TEXT NOT NULL REFERENCES customers (customer_id),
		amount             NUMERIC(12, 2) NOT NULL CHECK (amount >= 0),
		item_count         INTEGER NOT NULL CHECK (item_count >= 1),
		discount           NUMERIC(12, 2) NOT NULL CHECK (discount >= 0),
		shipping_fee       NUMERIC(12, 2) NOT NULL CHECK (shipping_fee >= 0),
		delivery_address   TEXT NOT NULL,
		transaction_status TEXT NOT NULL CHECK (transaction_status IN ('processing', 'cancelled', 'invoiced')),
		delivery_status    TEXT NOT NULL CHECK (delivery_status IN ('processing', 'delivered', 'cancelled')),
		CHECK ((transaction_status = 'cancelled') = (delivery_status = 'cancelled'))
	)`,
	`CREATE TABLE IF NOT EXISTS transaction_items (
		sku_id         TEXT PRIMARY KEY,
		transaction_id TEXT NOT NULL REFERENCES transactions (transaction_id),
		sku_name       TEXT NOT NULL,
		unit_price     NUMERIC(12, 2) NOT NULL CHECK (unit_price >= 0),
		quantity       INTEGER NOT NULL CHECK (quantity >= 1),
		item_discount  NUMERIC(12, 2) NOT NULL CHECK (item_discount >= 0),
		brand          TEXT NOT NULL,
		model          TEXT NOT NULL,
		color          TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_customer_id ON transactions (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transaction_items_transaction_id ON transaction_items (transaction_id)`,
}

// EnsureSchema creates the dataset tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// TableCounts returns the row count of each dataset table.
func (db *DB) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(tableSpecs))
	for _, spec := range tableSpecs {
		var n int
		if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+spec.table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", spec.table, err)
		}
		counts[spec.table] = n
	}
	return counts, nil
}
