// internal/domain/models.go
package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the serialized form of every date column.
const DateLayout = "2006-01-02"

// Customer is a synthetic buyer. CustomerID always equals Document.
type Customer struct {
	Name             string    `json:"name" db:"name"`
	BirthDate        time.Time `json:"birth_date" db:"birth_date"`
	Address          string    `json:"address" db:"address"`
	Document         string    `json:"document" db:"document"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	EmailOptin       bool      `json:"email_optin" db:"email_optin"`
	PhoneOptin       bool      `json:"phone_optin" db:"phone_optin"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
	CustomerID       string    `json:"customer_id" db:"customer_id"`
}

// Transaction is a purchase placed by a customer.
type Transaction struct {
	CustomerID        string            `json:"customer_id" db:"customer_id"`
	TransactionID     string            `json:"transaction_id" db:"transaction_id"`
	Amount            decimal.Decimal   `json:"amount" db:"amount"`
	ItemCount         int               `json:"item_count" db:"item_count"`
	Discount          decimal.Decimal   `json:"discount" db:"discount"`
	ShippingFee       decimal.Decimal   `json:"shipping_fee" db:"shipping_fee"`
	DeliveryAddress   string            `json:"delivery_address" db:"delivery_address"`
	TransactionStatus TransactionStatus `json:"transaction_status" db:"transaction_status"`
	DeliveryStatus    DeliveryStatus    `json:"delivery_status" db:"delivery_status"`
}

// TransactionItem is a SKU line belonging to a transaction.
type TransactionItem struct {
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	SKUID         string          `json:"sku_id" db:"sku_id"`
	SKUName       string          `json:"sku_name" db:"sku_name"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity      int             `json:"quantity" db:"quantity"`
	ItemDiscount  decimal.Decimal `json:"item_discount" db:"item_discount"`
	Brand         string          `json:"brand" db:"brand"`
	Model         string          `json:"model" db:"model"`
	Color         string          `json:"color" db:"color"`
}

// Column headers of the output tables, in file order.
var (
	CustomerHeader = []string{
		"Name", "Birth Date", "Address", "Document", "Email", "Phone",
		"Email Optin", "Phone Optin", "Registration Date", "Customer ID",
	}
	TransactionHeader = []string{
		"Customer ID", "Transaction ID", "Transaction Amount", "Item Count",
		"Discount Amount", "Shipping Fee", "Delivery Address",
		"Transaction Status", "Delivery Status",
	}
	TransactionItemHeader = []string{
		"Transaction ID", "SKU ID", "SKU Name", "SKU Price", "SKU Quantity",
		"SKU Discount", "Brand", "Model", "Color",
	}
)

// Record returns the customer as a row matching CustomerHeader.
func (c Customer) Record() []string {
	return []string{
		c.Name,
		c.BirthDate.Format(DateLayout),
		c.Address,
		c.Document,
		c.Email,
		c.Phone,
		strconv.FormatBool(c.EmailOptin),
		strconv.FormatBool(c.PhoneOptin),
		c.RegistrationDate.Format(DateLayout),
		c.CustomerID,
	}
}

// Record returns the transaction as a row matching TransactionHeader.
func (t Transaction) Record() []string {
	return []string{
		t.CustomerID,
		t.TransactionID,
		t.Amount.StringFixed(2),
		strconv.Itoa(t.ItemCount),
		t.Discount.StringFixed(2),
		t.ShippingFee.StringFixed(2),
		t.DeliveryAddress,
		string(t.TransactionStatus),
		string(t.DeliveryStatus),
	}
}

// Record returns the item as a row matching TransactionItemHeader.
func (i TransactionItem) Record() []string {
	return []string{
		i.TransactionID,
		i.SKUID,
		i.SKUName,
		i.UnitPrice.StringFixed(2),
		strconv.Itoa(i.Quantity),
		i.ItemDiscount.StringFixed(2),
		i.Brand,
		i.Model,
		i.Color,
	}
}

// CustomerIDs returns the key column of customers, in order.
func CustomerIDs(customers []Customer) []string {
	ids := make([]string, len(customers))
	for i, c := range customers {
		ids[i] = c.CustomerID
	}
	return ids
}

// TransactionIDs returns the key column of transactions, in order.
func TransactionIDs(transactions []Transaction) []string {
	ids := make([]string, len(transactions))
	for i, t := range transactions {
		ids[i] = t.TransactionID
	}
	return ids
}
