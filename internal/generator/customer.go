package generator

import (
	"fmt"
	"time"

	"github.com/alanceloth/datagen/internal/domain"
)

// Customers draws count customers. Documents are deduplicated against reg;
// a nil reg gets a fresh registry scoped to this call.
func (g *Generator) Customers(count int, reg *DocumentRegistry) ([]domain.Customer, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if reg == nil {
		reg = NewDocumentRegistry(g.maxDocumentAttempts)
	}

	now := g.now().UTC()
	oldest := now.AddDate(-g.ranges.MaxAge, 0, 0)
	youngest := now.AddDate(-g.ranges.MinAge, 0, 0)
	decadeStart := time.Date(now.Year()-now.Year()%10, time.January, 1, 0, 0, 0, 0, time.UTC)

	customers := make([]domain.Customer, 0, count)
	for i := 0; i < count; i++ {
		doc, err := g.UniqueDocument(reg)
		if err != nil {
			return nil, fmt.Errorf("customer %d: %w", i, err)
		}

		customers = append(customers, domain.Customer{
			Name:             g.faker.Name(),
			BirthDate:        truncateDay(g.faker.DateRange(oldest, youngest)),
			Address:          g.faker.Address().Address,
			Document:         doc,
			Email:            g.faker.Email(),
			Phone:            g.faker.Phone(),
			EmailOptin:       g.faker.Bool(),
			PhoneOptin:       g.faker.Bool(),
			RegistrationDate: truncateDay(g.faker.DateRange(decadeStart, now)),
			CustomerID:       doc,
		})
	}
	return customers, nil
}
