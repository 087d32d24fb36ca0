package generator

import (
	"github.com/alanceloth/datagen/internal/domain"
)

// Transactions draws count transactions whose customer ids are sampled with
// replacement from customerIDs.
func (g *Generator) Transactions(count int, customerIDs []string) ([]domain.Transaction, error) {
	if err := checkPopulation(count, customerIDs); err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, count)
	for i := 0; i < count; i++ {
		status := domain.TransactionStatuses[g.faker.Number(0, len(domain.TransactionStatuses)-1)]

		transactions = append(transactions, domain.Transaction{
			CustomerID:        g.pick(customerIDs),
			TransactionID:     g.faker.UUID(),
			Amount:            g.money(g.ranges.Amount),
			ItemCount:         g.integer(g.ranges.ItemCount),
			Discount:          g.money(g.ranges.Discount),
			ShippingFee:       g.money(g.ranges.ShippingFee),
			DeliveryAddress:   g.faker.Address().Address,
			TransactionStatus: status,
			DeliveryStatus:    g.deliveryStatus(status),
		})
	}
	return transactions, nil
}

// deliveryStatus follows the transaction: cancelled stays cancelled, anything
// else is still processing or already delivered.
func (g *Generator) deliveryStatus(status domain.TransactionStatus) domain.DeliveryStatus {
	if status == domain.TransactionCancelled {
		return domain.DeliveryCancelled
	}
	return domain.OpenDeliveryStatuses[g.faker.Number(0, len(domain.OpenDeliveryStatuses)-1)]
}
