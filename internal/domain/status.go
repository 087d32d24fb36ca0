package domain

import (
	"fmt"
	"strings"
)

// TransactionStatus is the billing state of a transaction.
type TransactionStatus string

const (
	TransactionProcessing TransactionStatus = "processing"
	TransactionCancelled  TransactionStatus = "cancelled"
	TransactionInvoiced   TransactionStatus = "invoiced"
)

// DeliveryStatus is the shipping state of a transaction.
type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryCancelled  DeliveryStatus = "cancelled"
)

// TransactionStatuses lists every transaction status in draw order.
var TransactionStatuses = []TransactionStatus{
	TransactionProcessing,
	TransactionCancelled,
	TransactionInvoiced,
}

// OpenDeliveryStatuses are the delivery states allowed for a transaction
// that was not cancelled.
var OpenDeliveryStatuses = []DeliveryStatus{
	DeliveryProcessing,
	DeliveryDelivered,
}

// ParseTransactionStatus returns the status for a given label (case-insensitive).
func ParseTransactionStatus(label string) (TransactionStatus, error) {
	s := TransactionStatus(strings.ToLower(strings.TrimSpace(label)))
	for _, known := range TransactionStatuses {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown transaction status %q", label)
}

// ParseDeliveryStatus returns the status for a given label (case-insensitive).
func ParseDeliveryStatus(label string) (DeliveryStatus, error) {
	s := DeliveryStatus(strings.ToLower(strings.TrimSpace(label)))
	switch s {
	case DeliveryProcessing, DeliveryDelivered, DeliveryCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown delivery status %q", label)
}

// ConsistentStatuses reports whether the pair honours the cancellation rule:
// a cancelled transaction is always a cancelled delivery and nothing else is.
func ConsistentStatuses(tx TransactionStatus, delivery DeliveryStatus) bool {
	if tx == TransactionCancelled {
		return delivery == DeliveryCancelled
	}
	return delivery == DeliveryProcessing || delivery == DeliveryDelivered
}
