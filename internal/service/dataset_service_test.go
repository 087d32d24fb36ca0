package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanceloth/datagen/internal/cache"
	"github.com/alanceloth/datagen/internal/config"
	"github.com/alanceloth/datagen/internal/dataset"
	"github.com/alanceloth/datagen/internal/generator"
	"github.com/alanceloth/datagen/internal/storage"
)

type memHistory struct {
	mu      sync.Mutex
	records []cache.RunRecord
	fail    bool
}

func (h *memHistory) Record(_ context.Context, rec cache.RunRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail {
		return errors.New("redis down")
	}
	h.records = append([]cache.RunRecord{rec}, h.records...)
	return nil
}

func (h *memHistory) Recent(_ context.Context, limit int) ([]cache.RunRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit <= 0 || limit > len(h.records) {
		limit = len(h.records)
	}
	return h.records[:limit], nil
}

func (h *memHistory) Clear(context.Context) error { return nil }

func seededGenerator() (*generator.Generator, error) {
	return generator.New(generator.WithSeed(5))
}

func TestGenerateUploadsEveryFile(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory("alanceloth")
	history := &memHistory{}
	svc := NewDatasetService(seededGenerator, t.TempDir(),
		WithGateway(storage.NewGateway(store), "alanceloth"),
		WithHistory(history),
	)

	res, err := svc.Generate(ctx, GenerateRequest{
		Counts: dataset.Counts{Customers: 3, Transactions: 4, Items: 5},
		Upload: true,
		Prefix: "runs/today",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, dataset.FormatCSV, res.Format)
	assert.Empty(t, res.UploadErrors)
	assert.Equal(t, []string{"runs/today/customers.csv", "runs/today/transactions.csv", "runs/today/transaction_items.csv"}, res.Uploaded)

	objects, err := store.ListObjects(ctx, "alanceloth", "runs/today/")
	require.NoError(t, err)
	assert.Len(t, objects, 3)

	runs, err := svc.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunID)
	assert.Equal(t, "csv", runs[0].Label)
	assert.Equal(t, 4, runs[0].Rows["transactions"])
}

func TestGenerateReportsUploadFailures(t *testing.T) {
	store := storage.NewMemory("alanceloth")
	svc := NewDatasetService(seededGenerator, t.TempDir(), WithGateway(storage.NewGateway(store), "alanceloth"))

	res, err := svc.Generate(context.Background(), GenerateRequest{
		Counts: dataset.Counts{Customers: 1},
		Upload: true,
		Bucket: "missing-bucket",
	})
	require.NoError(t, err)
	assert.Len(t, res.Files, 3)
	assert.Empty(t, res.Uploaded)
	require.Len(t, res.UploadErrors, 3)
	assert.Contains(t, res.UploadErrors[0], "not_found")
}

func TestGenerateWithoutGatewayRejectsUpload(t *testing.T) {
	svc := NewDatasetService(seededGenerator, t.TempDir())
	_, err := svc.Generate(context.Background(), GenerateRequest{Upload: true})
	assert.ErrorIs(t, err, ErrUploadUnavailable)
}

func TestGenerateDefaultsOutputDirToRunID(t *testing.T) {
	root := t.TempDir()
	svc := NewDatasetService(seededGenerator, root)

	res, err := svc.Generate(context.Background(), GenerateRequest{Format: dataset.FormatCSVGzip})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, res.RunID), res.OutputDir)
	assert.FileExists(t, filepath.Join(root, res.RunID, "customers.csv.gz"))
}

func TestGenerateRecordsFailedRuns(t *testing.T) {
	history := &memHistory{}
	svc := NewDatasetService(seededGenerator, t.TempDir(), WithHistory(history))

	_, err := svc.Generate(context.Background(), GenerateRequest{Counts: dataset.Counts{Transactions: 2}})
	require.ErrorIs(t, err, generator.ErrEmptyPopulation)

	require.Len(t, history.records, 1)
	assert.NotEmpty(t, history.records[0].Error)
}

func TestGenerateIgnoresHistoryFailures(t *testing.T) {
	svc := NewDatasetService(seededGenerator, t.TempDir(), WithHistory(&memHistory{fail: true}))
	_, err := svc.Generate(context.Background(), GenerateRequest{Counts: dataset.Counts{Customers: 1}})
	assert.NoError(t, err)
}

func TestGeneratorFactory(t *testing.T) {
	newGen := GeneratorFactory(config.GeneratorConfig{Seed: 42})
	a, err := newGen()
	require.NoError(t, err)
	b, err := newGen()
	require.NoError(t, err)

	ca, err := a.Customers(2, nil)
	require.NoError(t, err)
	cb, err := b.Customers(2, nil)
	require.NoError(t, err)
	assert.Equal(t, ca[0].Document, cb[0].Document)

	_, err = GeneratorFactory(config.GeneratorConfig{MaxDocumentAttempts: -1})()
	assert.NoError(t, err)
}
