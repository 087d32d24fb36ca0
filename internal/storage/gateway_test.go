package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanceloth/datagen/internal/metrics"
)

const testBucket = "alanceloth"

func newMemoryGateway(t *testing.T) (*Gateway, *MemoryStore) {
	t.Helper()
	store := NewMemory(testBucket)
	return NewGateway(store, WithGatewayMetrics(metrics.New(prometheus.NewRegistry()))), store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireKind(t *testing.T, err error, op string, kind ErrorKind) *Error {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se), "expected *storage.Error, got %T", err)
	assert.Equal(t, op, se.Op)
	assert.Equal(t, kind, se.Kind, "error: %v", err)
	return se
}

func TestGatewayMoveIsVisibleThroughList(t *testing.T) {
	ctx := context.Background()
	gw, _ := newMemoryGateway(t)
	src := writeFile(t, t.TempDir(), "customers.csv", "Name\n")

	require.NoError(t, gw.Upload(ctx, src, testBucket, "incoming/customers.csv"))
	require.NoError(t, gw.Move(ctx, testBucket, "incoming/customers.csv", "archive/customers.csv"))

	keys, err := gw.List(ctx, testBucket)
	require.NoError(t, err)
	assert.Equal(t, []string{"archive/customers.csv"}, keys)
}

func TestGatewayUploadDefaultsKeyToFileName(t *testing.T) {
	ctx := context.Background()
	gw, _ := newMemoryGateway(t)
	src := writeFile(t, t.TempDir(), "transactions.csv", "x")

	require.NoError(t, gw.Upload(ctx, src, testBucket, ""))

	keys, err := gw.List(ctx, testBucket)
	require.NoError(t, err)
	assert.Equal(t, []string{"transactions.csv"}, keys)
}

func TestGatewayUploadMissingLocalFile(t *testing.T) {
	gw, _ := newMemoryGateway(t)
	err := gw.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), testBucket, "")
	se := requireKind(t, err, "upload", KindNotFound)
	assert.Equal(t, "nope.csv", se.Key)
}

func TestGatewayDownload(t *testing.T) {
	ctx := context.Background()
	gw, store := newMemoryGateway(t)
	require.NoError(t, store.PutObject(ctx, testBucket, "data/items.csv", []byte("SKU ID\n")))

	dest := filepath.Join(t.TempDir(), "nested", "items.csv")
	require.NoError(t, gw.Download(ctx, testBucket, "data/items.csv", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "SKU ID\n", string(got))
}

func TestGatewayDownloadMissingObject(t *testing.T) {
	gw, _ := newMemoryGateway(t)
	dest := filepath.Join(t.TempDir(), "missing.csv")

	err := gw.Download(context.Background(), testBucket, "missing.csv", dest)
	requireKind(t, err, "download", KindNotFound)
	assert.NoFileExists(t, dest)
}

func TestGatewayDelete(t *testing.T) {
	ctx := context.Background()
	gw, store := newMemoryGateway(t)
	require.NoError(t, store.PutObject(ctx, testBucket, "a.csv", []byte("a")))

	require.NoError(t, gw.Delete(ctx, testBucket, "a.csv"))
	keys, err := gw.List(ctx, testBucket)
	require.NoError(t, err)
	assert.Empty(t, keys)

	requireKind(t, gw.Delete(ctx, testBucket, ""), "delete", KindUnknown)
}

func TestGatewayFolders(t *testing.T) {
	ctx := context.Background()
	gw, store := newMemoryGateway(t)

	require.NoError(t, gw.CreateFolder(ctx, testBucket, "reports"))
	require.NoError(t, gw.CreateFolder(ctx, testBucket, "reports/"))
	require.NoError(t, store.PutObject(ctx, testBucket, "reports/2024/customers.csv", []byte("x")))
	require.NoError(t, store.PutObject(ctx, testBucket, "reports-old.csv", []byte("y")))

	keys, err := gw.List(ctx, testBucket)
	require.NoError(t, err)
	assert.Equal(t, []string{"reports-old.csv", "reports/", "reports/2024/customers.csv"}, keys)

	require.NoError(t, gw.DeleteFolder(ctx, testBucket, "reports"))

	keys, err = gw.List(ctx, testBucket)
	require.NoError(t, err)
	assert.Equal(t, []string{"reports-old.csv"}, keys)
}

func TestGatewayFolderNameRequired(t *testing.T) {
	ctx := context.Background()
	gw, _ := newMemoryGateway(t)

	err := gw.CreateFolder(ctx, testBucket, "/")
	requireKind(t, err, "create_folder", KindUnknown)
	assert.ErrorIs(t, err, ErrInvalidKey)

	requireKind(t, gw.DeleteFolder(ctx, testBucket, ""), "delete_folder", KindUnknown)
}

func TestGatewayMoveMissingSourceLeavesBucketUntouched(t *testing.T) {
	ctx := context.Background()
	gw, _ := newMemoryGateway(t)

	err := gw.Move(ctx, testBucket, "ghost.csv", "archive/ghost.csv")
	requireKind(t, err, "move", KindNotFound)

	keys, err := gw.List(ctx, testBucket)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGatewayMoveOntoItselfKeepsObject(t *testing.T) {
	ctx := context.Background()
	gw, _ := newMemoryGateway(t)
	src := writeFile(t, t.TempDir(), "a.txt", "hello")
	require.NoError(t, gw.Upload(ctx, src, testBucket, "a.txt"))

	err := gw.Move(ctx, testBucket, "a.txt", "a.txt")
	requireKind(t, err, "move", KindUnknown)
	assert.ErrorIs(t, err, ErrInvalidKey)

	keys, err := gw.List(ctx, testBucket)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, keys)
}

func TestGatewayUnknownBucket(t *testing.T) {
	gw, _ := newMemoryGateway(t)
	_, err := gw.List(context.Background(), "other-bucket")
	se := requireKind(t, err, "list", KindNotFound)
	assert.Equal(t, "other-bucket", se.Bucket)
	assert.Contains(t, se.Error(), "storage list other-bucket (not_found)")
}
