package generator

import (
	"strings"
	"unicode"

	"github.com/alanceloth/datagen/internal/domain"
)

// Items draws count transaction items whose transaction ids are sampled with
// replacement from transactionIDs.
func (g *Generator) Items(count int, transactionIDs []string) ([]domain.TransactionItem, error) {
	if err := checkPopulation(count, transactionIDs); err != nil {
		return nil, err
	}

	items := make([]domain.TransactionItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, domain.TransactionItem{
			TransactionID: g.pick(transactionIDs),
			SKUID:         g.faker.UUID(),
			SKUName:       capitalize(g.faker.Word()),
			UnitPrice:     g.money(g.ranges.UnitPrice),
			Quantity:      g.integer(g.ranges.Quantity),
			ItemDiscount:  g.money(g.ranges.ItemDiscount),
			Brand:         g.faker.Company(),
			Model:         capitalize(g.faker.Word()),
			Color:         g.faker.Color(),
		})
	}
	return items, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
