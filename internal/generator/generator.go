// Package generator builds synthetic customers, transactions and transaction
// items. Foreign keys are always sampled from the parent keys handed in, so a
// dataset produced parent-first is referentially consistent.
package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyPopulation is returned when rows must reference parent keys but none were supplied.
	ErrEmptyPopulation = errors.New("generator: cannot sample from an empty key population")
	// ErrInvalidCount is returned for negative row counts.
	ErrInvalidCount = errors.New("generator: row count must not be negative")
	// ErrInvalidRange is returned when a configured value range is unusable.
	ErrInvalidRange = errors.New("generator: invalid value range")
	// ErrDocumentSpaceExhausted is returned when no unseen document was found within the attempt budget.
	ErrDocumentSpaceExhausted = errors.New("generator: document space exhausted")
)

// DecimalRange bounds a monetary draw, inclusive.
type DecimalRange struct {
	Min float64
	Max float64
}

// IntRange bounds an integer draw, inclusive.
type IntRange struct {
	Min int
	Max int
}

// Ranges holds every numeric bound used while drawing rows.
type Ranges struct {
	Amount       DecimalRange
	Discount     DecimalRange
	ShippingFee  DecimalRange
	ItemCount    IntRange
	UnitPrice    DecimalRange
	ItemDiscount DecimalRange
	Quantity     IntRange
	MinAge       int
	MaxAge       int
}

// DefaultRanges returns the bounds the datasets have always been drawn with.
func DefaultRanges() Ranges {
	return Ranges{
		Amount:       DecimalRange{Min: 10, Max: 1000},
		Discount:     DecimalRange{Min: 0, Max: 50},
		ShippingFee:  DecimalRange{Min: 5, Max: 20},
		ItemCount:    IntRange{Min: 1, Max: 10},
		UnitPrice:    DecimalRange{Min: 5, Max: 500},
		ItemDiscount: DecimalRange{Min: 0, Max: 30},
		Quantity:     IntRange{Min: 1, Max: 5},
		MinAge:       18,
		MaxAge:       90,
	}
}

// Validate checks that every range is non-negative and ordered.
func (r Ranges) Validate() error {
	decimals := map[string]DecimalRange{
		"amount":        r.Amount,
		"discount":      r.Discount,
		"shipping fee":  r.ShippingFee,
		"unit price":    r.UnitPrice,
		"item discount": r.ItemDiscount,
	}
	for name, d := range decimals {
		if d.Min < 0 || d.Min > d.Max {
			return fmt.Errorf("%w: %s [%v, %v]", ErrInvalidRange, name, d.Min, d.Max)
		}
	}
	ints := map[string]IntRange{
		"item count": r.ItemCount,
		"quantity":   r.Quantity,
	}
	for name, i := range ints {
		if i.Min < 1 || i.Min > i.Max {
			return fmt.Errorf("%w: %s [%d, %d]", ErrInvalidRange, name, i.Min, i.Max)
		}
	}
	if r.MinAge < 0 || r.MinAge > r.MaxAge {
		return fmt.Errorf("%w: age [%d, %d]", ErrInvalidRange, r.MinAge, r.MaxAge)
	}
	return nil
}

// Generator draws rows from a private faker. It is not safe for concurrent
// use; every run builds its own.
type Generator struct {
	faker               *gofakeit.Faker
	ranges              Ranges
	now                 func() time.Time
	maxDocumentAttempts int
}

// Option customises a Generator.
type Option func(*Generator)

// WithSeed makes the output reproducible. A zero seed draws a random one.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.faker = gofakeit.New(seed)
	}
}

// WithRanges overrides the default value ranges.
func WithRanges(r Ranges) Option {
	return func(g *Generator) {
		g.ranges = r
	}
}

// WithClock sets the reference time used for birth and registration dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithMaxDocumentAttempts bounds the retries spent looking for an unseen document
// in registries created by the generator itself.
func WithMaxDocumentAttempts(n int) Option {
	return func(g *Generator) {
		g.maxDocumentAttempts = n
	}
}

// New builds a Generator.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		faker:               gofakeit.New(0),
		ranges:              DefaultRanges(),
		now:                 time.Now,
		maxDocumentAttempts: DefaultMaxDocumentAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.ranges.Validate(); err != nil {
		return nil, err
	}
	if g.maxDocumentAttempts < 1 {
		return nil, fmt.Errorf("%w: max document attempts %d", ErrInvalidRange, g.maxDocumentAttempts)
	}
	return g, nil
}

// Ranges returns the bounds in use.
func (g *Generator) Ranges() Ranges {
	return g.ranges
}

func (g *Generator) money(r DecimalRange) decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Float64Range(r.Min, r.Max)).Round(2)
}

func (g *Generator) integer(r IntRange) int {
	return g.faker.Number(r.Min, r.Max)
}

// pick samples uniformly with replacement.
func (g *Generator) pick(keys []string) string {
	return keys[g.faker.Number(0, len(keys)-1)]
}

func checkPopulation(count int, keys []string) error {
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if count > 0 && len(keys) == 0 {
		return ErrEmptyPopulation
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
