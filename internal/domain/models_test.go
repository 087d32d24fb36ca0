package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsMatchHeaders(t *testing.T) {
	day := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	c := Customer{
		Name:             "Ana Souza",
		BirthDate:        day,
		Address:          "Rua A, 10, Recife",
		Document:         "52998224725",
		Email:            "ana@example.com",
		Phone:            "+55 81 99999-0000",
		EmailOptin:       true,
		RegistrationDate: day.AddDate(30, 0, 0),
		CustomerID:       "52998224725",
	}
	rec := c.Record()
	require.Len(t, rec, len(CustomerHeader))
	assert.Equal(t, "1990-05-17", rec[1])
	assert.Equal(t, "true", rec[6])
	assert.Equal(t, "false", rec[7])
	assert.Equal(t, rec[3], rec[9])

	tx := Transaction{
		CustomerID:        c.CustomerID,
		TransactionID:     "tx-1",
		Amount:            decimal.RequireFromString("10.5"),
		ItemCount:         3,
		Discount:          decimal.Zero,
		ShippingFee:       decimal.RequireFromString("7.25"),
		TransactionStatus: TransactionInvoiced,
		DeliveryStatus:    DeliveryDelivered,
	}
	txRec := tx.Record()
	require.Len(t, txRec, len(TransactionHeader))
	assert.Equal(t, "10.50", txRec[2])
	assert.Equal(t, "0.00", txRec[4])
	assert.Equal(t, "invoiced", txRec[7])

	item := TransactionItem{TransactionID: "tx-1", SKUID: "sku-1", Quantity: 2, UnitPrice: decimal.NewFromInt(5)}
	itemRec := item.Record()
	require.Len(t, itemRec, len(TransactionItemHeader))
	assert.Equal(t, "5.00", itemRec[3])
	assert.Equal(t, "2", itemRec[4])
}

func TestConsistentStatuses(t *testing.T) {
	assert.True(t, ConsistentStatuses(TransactionCancelled, DeliveryCancelled))
	assert.False(t, ConsistentStatuses(TransactionCancelled, DeliveryDelivered))
	assert.True(t, ConsistentStatuses(TransactionInvoiced, DeliveryDelivered))
	assert.True(t, ConsistentStatuses(TransactionProcessing, DeliveryProcessing))
	assert.False(t, ConsistentStatuses(TransactionInvoiced, DeliveryCancelled))
}

func TestParseStatuses(t *testing.T) {
	s, err := ParseTransactionStatus(" Cancelled ")
	require.NoError(t, err)
	assert.Equal(t, TransactionCancelled, s)

	_, err = ParseTransactionStatus("refunded")
	assert.Error(t, err)

	d, err := ParseDeliveryStatus("DELIVERED")
	require.NoError(t, err)
	assert.Equal(t, DeliveryDelivered, d)
}

func TestKeyColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CustomerIDs([]Customer{{CustomerID: "a"}, {CustomerID: "b"}}))
	assert.Equal(t, []string{"x"}, TransactionIDs([]Transaction{{TransactionID: "x"}}))
	assert.Empty(t, TransactionIDs(nil))
}
