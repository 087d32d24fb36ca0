package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alanceloth/datagen/internal/domain"
	"github.com/alanceloth/datagen/internal/generator"
)

func newGenerator(t *testing.T) *generator.Generator {
	t.Helper()
	g, err := generator.New(
		generator.WithSeed(11),
		generator.WithClock(func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return g
}

func readCSV(t *testing.T, r io.Reader) [][]string {
	t.Helper()
	records, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	return records
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	return readCSV(t, f)
}

func TestAssembleCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "csv")
	a, err := NewAssembler(newGenerator(t), dir, FormatCSV)
	require.NoError(t, err)

	res, err := a.Assemble(context.Background(), Counts{Customers: 20, Transactions: 50, Items: 80})
	require.NoError(t, err)

	require.Len(t, res.Files, 3)
	assert.Equal(t, filepath.Join(dir, "customers.csv"), res.Files[0])
	assert.Equal(t, filepath.Join(dir, "transactions.csv"), res.Files[1])
	assert.Equal(t, filepath.Join(dir, "transaction_items.csv"), res.Files[2])
	assert.Equal(t, map[string]int{"customers": 20, "transactions": 50, "transaction_items": 80}, res.Rows)
	assert.Positive(t, res.Duration)

	customers := readCSVFile(t, res.Files[0])
	transactions := readCSVFile(t, res.Files[1])
	items := readCSVFile(t, res.Files[2])

	assert.Equal(t, domain.CustomerHeader, customers[0])
	assert.Equal(t, domain.TransactionHeader, transactions[0])
	assert.Equal(t, domain.TransactionItemHeader, items[0])
	require.Len(t, customers, 21)
	require.Len(t, transactions, 51)
	require.Len(t, items, 81)

	customerIDs := make(map[string]bool)
	for _, row := range customers[1:] {
		customerIDs[row[9]] = true
	}
	assert.Len(t, customerIDs, 20)

	transactionIDs := make(map[string]bool)
	for _, row := range transactions[1:] {
		assert.True(t, customerIDs[row[0]], "transaction references unknown customer %s", row[0])
		transactionIDs[row[1]] = true
		if row[7] == "cancelled" {
			assert.Equal(t, "cancelled", row[8])
		} else {
			assert.Contains(t, []string{"processing", "delivered"}, row[8])
		}
	}
	for _, row := range items[1:] {
		assert.True(t, transactionIDs[row[0]], "item references unknown transaction %s", row[0])
	}
}

func TestAssembleEmptyTables(t *testing.T) {
	dir := t.TempDir()
	a, err := NewAssembler(newGenerator(t), dir, FormatCSV)
	require.NoError(t, err)

	res, err := a.Assemble(context.Background(), Counts{})
	require.NoError(t, err)

	for _, path := range res.Files {
		records := readCSVFile(t, path)
		assert.Len(t, records, 1, "only the header is expected in %s", path)
	}
}

func TestAssembleTransactionsWithoutCustomersFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a, err := NewAssembler(newGenerator(t), dir, FormatCSV)
	require.NoError(t, err)

	_, err = a.Assemble(context.Background(), Counts{Customers: 0, Transactions: 3})
	require.ErrorIs(t, err, generator.ErrEmptyPopulation)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "nothing should be written when generation fails")
}

func TestAssembleStopsAtFirstWriteFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the transactions file name makes its write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "transactions.csv"), 0o755))

	a, err := NewAssembler(newGenerator(t), dir, FormatCSV)
	require.NoError(t, err)

	_, err = a.Assemble(context.Background(), Counts{Customers: 2, Transactions: 2, Items: 2})
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(dir, "customers.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "transaction_items.csv"))
}

func TestAssembleHonoursCancelledContext(t *testing.T) {
	a, err := NewAssembler(newGenerator(t), t.TempDir(), FormatCSV)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Assemble(ctx, Counts{Customers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembleGzip(t *testing.T) {
	dir := t.TempDir()
	a, err := NewAssembler(newGenerator(t), dir, FormatCSVGzip)
	require.NoError(t, err)

	res, err := a.Assemble(context.Background(), Counts{Customers: 5, Transactions: 5, Items: 5})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "customers.csv.gz"), res.Files[0])

	f, err := os.Open(res.Files[1])
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	records := readCSV(t, zr)
	assert.Equal(t, domain.TransactionHeader, records[0])
	assert.Len(t, records, 6)
}

func TestAssembleXLSX(t *testing.T) {
	dir := t.TempDir()
	a, err := NewAssembler(newGenerator(t), dir, FormatXLSX)
	require.NoError(t, err)

	res, err := a.Assemble(context.Background(), Counts{Customers: 4, Transactions: 6, Items: 8})
	require.NoError(t, err)

	f, err := excelize.OpenFile(res.Files[2])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TableTransactionItems}, f.GetSheetList())
	rows, err := f.GetRows(TableTransactionItems)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionItemHeader, rows[0])
	assert.Len(t, rows, 9)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, " CSV.GZ ": FormatCSVGzip, "xlsx": FormatXLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("parquet")
	assert.Error(t, err)

	assert.Equal(t, "customers.csv.gz", FormatCSVGzip.FileName(TableCustomers))
}

func TestNewAssemblerValidation(t *testing.T) {
	g := newGenerator(t)
	_, err := NewAssembler(nil, "x", FormatCSV)
	assert.Error(t, err)
	_, err = NewAssembler(g, "", FormatCSV)
	assert.Error(t, err)
	_, err = NewAssembler(g, "x", Format("json"))
	assert.Error(t, err)
}
