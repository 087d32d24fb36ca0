// Package dataset turns generator output into the three dataset tables and
// writes them to disk.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alanceloth/datagen/internal/domain"
	"github.com/alanceloth/datagen/internal/generator"
	"github.com/alanceloth/datagen/internal/metrics"
	"github.com/alanceloth/datagen/pkg/logger"
)

// Table names, also used as file base names.
const (
	TableCustomers        = "customers"
	TableTransactions     = "transactions"
	TableTransactionItems = "transaction_items"
)

// TableNames lists the tables in write (and foreign key) order.
var TableNames = []string{TableCustomers, TableTransactions, TableTransactionItems}

// Format is the on-disk encoding of the tables.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatCSVGzip Format = "csv.gz"
	FormatXLSX    Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatCSVGzip, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want csv, csv.gz or xlsx)", s)
}

// Extension returns the file suffix including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// FileName returns the file name of a table in this format.
func (f Format) FileName(table string) string {
	return table + f.Extension()
}

// Counts is the number of rows requested per table.
type Counts struct {
	Customers    int `json:"customers"`
	Transactions int `json:"transactions"`
	Items        int `json:"items"`
}

// Result describes one finished run.
type Result struct {
	OutputDir string         `json:"output_dir"`
	Format    Format         `json:"format"`
	Files     []string       `json:"files"`
	Rows      map[string]int `json:"rows"`
	Duration  time.Duration  `json:"duration"`
}

// Assembler runs the generators parent-first and writes one file per table.
type Assembler struct {
	gen       *generator.Generator
	outputDir string
	format    Format
	writer    TableWriter
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// AssemblerOption customises an Assembler.
type AssemblerOption func(*Assembler)

// WithMetrics records generated rows and run durations.
func WithMetrics(m *metrics.Metrics) AssemblerOption {
	return func(a *Assembler) {
		a.metrics = m
	}
}

// NewAssembler creates an Assembler writing format files into outputDir.
func NewAssembler(gen *generator.Generator, outputDir string, format Format, opts ...AssemblerOption) (*Assembler, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if outputDir == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	w, err := writerFor(format)
	if err != nil {
		return nil, err
	}
	a := &Assembler{
		gen:       gen,
		outputDir: outputDir,
		format:    format,
		writer:    w,
		log:       logger.Component("assembler"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// OutputDir returns the directory the tables are written to.
func (a *Assembler) OutputDir() string {
	return a.outputDir
}

// Assemble generates customers, then transactions referencing them, then
// items referencing the transactions, and writes the three tables in that
// order. A failing write stops the run; files already written stay.
func (a *Assembler) Assemble(ctx context.Context, counts Counts) (*Result, error) {
	start := time.Now()

	customers, err := a.gen.Customers(counts.Customers, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate customers: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transactions, err := a.gen.Transactions(counts.Transactions, domain.CustomerIDs(customers))
	if err != nil {
		return nil, fmt.Errorf("failed to generate transactions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := a.gen.Items(counts.Items, domain.TransactionIDs(transactions))
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction items: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.log.Info().
		Int("customers", len(customers)).
		Int("transactions", len(transactions)).
		Int("items", len(items)).
		Dur("elapsed", time.Since(start)).
		Msg("rows generated")

	tables := []Table{
		{
			Name:   TableCustomers,
			Header: domain.CustomerHeader,
			Len:    len(customers),
			Row:    func(i int) []string { return customers[i].Record() },
		},
		{
			Name:   TableTransactions,
			Header: domain.TransactionHeader,
			Len:    len(transactions),
			Row:    func(i int) []string { return transactions[i].Record() },
		},
		{
			Name:   TableTransactionItems,
			Header: domain.TransactionItemHeader,
			Len:    len(items),
			Row:    func(i int) []string { return items[i].Record() },
		},
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{
		OutputDir: a.outputDir,
		Format:    a.format,
		Rows:      make(map[string]int, len(tables)),
	}
	for _, t := range tables {
		path := filepath.Join(a.outputDir, a.format.FileName(t.Name))
		if err := a.writer.WriteTable(path, t); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		a.log.Debug().Str("table", t.Name).Str("path", path).Int("rows", t.Len).Msg("table written")
		a.metrics.AddRows(t.Name, t.Len)
		result.Files = append(result.Files, path)
		result.Rows[t.Name] = t.Len
	}

	result.Duration = time.Since(start)
	a.metrics.ObserveRun(string(a.format), result.Duration)
	a.log.Info().
		Str("output_dir", a.outputDir).
		Str("format", string(a.format)).
		Dur("duration", result.Duration).
		Msg("dataset written")

	return result, nil
}
