package postgres

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/alanceloth/datagen/internal/dataset"
	"github.com/alanceloth/datagen/internal/domain"
	"github.com/alanceloth/datagen/pkg/logger"
)

type columnKind int

const (
	kindText columnKind = iota
	kindDate
	kindBool
	kindInt
	kindMoney
)

type column struct {
	name string
	kind columnKind
}

// tableSpec maps one dataset file onto its table. Columns follow the file's
// header order.
type tableSpec struct {
	table   string
	header  []string
	columns []column
}

var tableSpecs = []tableSpec{
	{
		table:  dataset.TableCustomers,
		header: domain.CustomerHeader,
		columns: []column{
			{"name", kindText},
			{"birth_date", kindDate},
			{"address", kindText},
			{"document", kindText},
			{"email", kindText},
			{"phone", kindText},
			{"email_optin", kindBool},
			{"phone_optin", kindBool},
			{"registration_date", kindDate},
			{"customer_id", kindText},
		},
	},
	{
		table:  dataset.TableTransactions,
		header: domain.TransactionHeader,
		columns: []column{
			{"customer_id", kindText},
			{"transaction_id", kindText},
			{"amount", kindMoney},
			{"item_count", kindInt},
			{"discount", kindMoney},
			{"shipping_fee", kindMoney},
			{"delivery_address", kindText},
			{"transaction_status", kindText},
			{"delivery_status", kindText},
		},
	},
	{
		table:  dataset.TableTransactionItems,
		header: domain.TransactionItemHeader,
		columns: []column{
			{"transaction_id", kindText},
			{"sku_id", kindText},
			{"sku_name", kindText},
			{"unit_price", kindMoney},
			{"quantity", kindInt},
			{"item_discount", kindMoney},
			{"brand", kindText},
			{"model", kindText},
			{"color", kindText},
		},
	},
}

func (s tableSpec) columnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}

// Loader copies generated dataset files into Postgres.
type Loader struct {
	db  *DB
	log zerolog.Logger
}

func NewLoader(db *DB) *Loader {
	return &Loader{db: db, log: logger.Component("loader")}
}

// LoadDir loads customers, transactions and transaction items from dir, in
// that order, each table in its own transaction. Plain and gzipped CSV files
// are accepted. With truncate set the tables are emptied first.
func (l *Loader) LoadDir(ctx context.Context, dir string, truncate bool) (map[string]int, error) {
	if truncate {
		err := l.db.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "TRUNCATE TABLE transaction_items, transactions, customers")
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to truncate dataset tables: %w", err)
		}
		l.log.Info().Msg("dataset tables truncated")
	}

	counts := make(map[string]int, len(tableSpecs))
	for _, spec := range tableSpecs {
		path, err := findTableFile(dir, spec.table)
		if err != nil {
			return counts, err
		}
		rows, err := readTable(path, spec)
		if err != nil {
			return counts, err
		}

		start := time.Now()
		if err := l.db.WithTx(ctx, func(tx *sql.Tx) error {
			return copyRows(ctx, tx, spec, rows)
		}); err != nil {
			return counts, fmt.Errorf("failed to load %s: %w", spec.table, err)
		}
		counts[spec.table] = len(rows)
		l.log.Info().Str("table", spec.table).Str("file", path).Int("rows", len(rows)).Dur("elapsed", time.Since(start)).Msg("table loaded")
	}
	return counts, nil
}

func findTableFile(dir, table string) (string, error) {
	for _, f := range []dataset.Format{dataset.FormatCSV, dataset.FormatCSVGzip} {
		path := filepath.Join(dir, f.FileName(table))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no csv file for table %s in %s: %w", table, dir, os.ErrNotExist)
}

func readTable(path string, spec tableSpec) ([][]interface{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header of %s: %w", path, err)
	}
	if err := checkHeader(header, spec.header); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rows [][]interface{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		row, err := convertRecord(record, spec.columns)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return fmt.Errorf("header column %d is %q, want %q", i+1, got[i], want[i])
		}
	}
	return nil
}

func convertRecord(record []string, columns []column) ([]interface{}, error) {
	row := make([]interface{}, len(columns))
	for i, col := range columns {
		raw := record[i]
		switch col.kind {
		case kindDate:
			t, err := time.Parse(domain.DateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.name, err)
			}
			row[i] = t
		case kindBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.name, err)
			}
			row[i] = b
		case kindInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.name, err)
			}
			row[i] = n
		case kindMoney:
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.name, err)
			}
			row[i] = d
		default:
			row[i] = raw
		}
	}
	return row, nil
}

func copyRows(ctx context.Context, tx *sql.Tx, spec tableSpec, rows [][]interface{}) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(spec.table, spec.columnNames()...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to copy row: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	return nil
}
