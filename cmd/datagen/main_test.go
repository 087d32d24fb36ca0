package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("BUCKET_NAME", "alanceloth")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"datagen"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runApp(t, "generate",
		"--output-dir", dir,
		"--customers", "3",
		"--transactions", "4",
		"--items", "5",
		"--seed", "7",
		"--format", "csv.gz",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Generated 3 customers, 4 transactions and 5 items")
	for _, name := range []string{"customers.csv.gz", "transactions.csv.gz", "transaction_items.csv.gz"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestGenerateCommandUploadsToMemoryStore(t *testing.T) {
	out, _, err := runApp(t, "generate",
		"--output-dir", t.TempDir(),
		"--customers", "1",
		"--transactions", "1",
		"--items", "1",
		"--upload",
		"--prefix", "daily",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded daily/customers.csv")
	assert.NotContains(t, out, "Upload failed")
}

func TestGenerateCommandUploadFailureKeepsExitCode(t *testing.T) {
	out, _, err := runApp(t, "generate",
		"--output-dir", t.TempDir(),
		"--customers", "1",
		"--upload",
		"--bucket", "missing",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Upload failed")
}

func TestGenerateCommandRejectsBadInput(t *testing.T) {
	_, _, err := runApp(t, "generate", "--output-dir", t.TempDir(), "--format", "parquet")
	assert.Error(t, err)

	_, _, err = runApp(t, "generate", "--output-dir", t.TempDir(), "--customers", "0", "--transactions", "2")
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	out, _, err := runApp(t, "bench",
		"--output-dir", t.TempDir(),
		"--customers", "2",
		"--transactions", "2",
		"--items", "2",
		"--workers", "2",
		"--variant", "csv",
		"--variant", "xlsx",
		"--exec", "echo hello",
		"--exec", "exit 3",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "csv/customers.csv")
	assert.Contains(t, out, "xlsx/customers.xlsx")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "failed")
}

func TestStorageCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	out, stderr, err := runApp(t, "storage", "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded")
	assert.Empty(t, stderr)

	out, _, err = runApp(t, "storage", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStorageCommandFailureIsDiagnostic(t *testing.T) {
	_, stderr, err := runApp(t, "storage", "download", "missing.csv", filepath.Join(t.TempDir(), "x.csv"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "not_found")

	_, stderr, err = runApp(t, "storage", "list", "--bucket", "nope")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Error:")
}

func TestStorageCommandUsage(t *testing.T) {
	_, _, err := runApp(t, "storage", "move", "only-one")
	require.Error(t, err)
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestStorageCommandUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "ftp")
	var stdout bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run([]string{"datagen", "storage", "list"})
	assert.ErrorContains(t, err, "unknown driver")
}

func TestHistoryCommandDisabled(t *testing.T) {
	out, _, err := runApp(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")
}

func TestRelativeTo(t *testing.T) {
	assert.Equal(t, filepath.Join("csv", "a.csv"), relativeTo("/data", "/data/csv/a.csv"))
	assert.Equal(t, "hello", relativeTo("/data", "hello"))
}
