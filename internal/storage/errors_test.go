package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanceloth/datagen/internal/config"
)

type statusErr int

func (s statusErr) Error() string       { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) HTTPStatusCode() int { return int(s) }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"sentinel not found", fmt.Errorf("wrap: %w", ErrNotFound), KindNotFound},
		{"missing local file", &os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, KindNotFound},
		{"missing credentials", ErrMissingCredentials, KindAuthFailure},
		{"api no such key", &smithy.GenericAPIError{Code: "NoSuchKey"}, KindNotFound},
		{"api access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, KindAuthFailure},
		{"api unknown code", &smithy.GenericAPIError{Code: "SlowDown"}, KindUnknown},
		{"status 404", statusErr(404), KindNotFound},
		{"status 403", statusErr(403), KindAuthFailure},
		{"status 503", statusErr(503), KindNetworkError},
		{"status 400", statusErr(400), KindUnknown},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, KindNetworkError},
		{"deadline", context.DeadlineExceeded, KindNetworkError},
		{"tagged", withKind(KindAuthFailure, errors.New("nope")), KindAuthFailure},
		{"gateway error", &Error{Op: "list", Kind: KindNetworkError, Err: errors.New("x")}, KindNetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorFormattingAndUnwrap(t *testing.T) {
	err := &Error{Op: "download", Bucket: "b", Key: "k.csv", Kind: KindNotFound, Err: ErrNotFound}
	assert.Equal(t, "storage download b/k.csv (not_found): storage: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	var se *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &se))
	assert.Equal(t, "k.csv", se.Key)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "auth_failure", KindAuthFailure.String())
	assert.Equal(t, "network_error", KindNetworkError.String())
}

func TestMinioEndpoint(t *testing.T) {
	tests := []struct {
		in     string
		host   string
		secure bool
	}{
		{"http://localhost:9000", "localhost:9000", false},
		{"https://s3.example.com/", "s3.example.com", true},
		{"minio.internal:9000", "minio.internal:9000", true},
		{"//minio.internal/", "minio.internal", true},
	}
	for _, tt := range tests {
		host, secure, err := minioEndpoint(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.host, host, tt.in)
		assert.Equal(t, tt.secure, secure, tt.in)
	}

	_, _, err := minioEndpoint("")
	assert.Error(t, err)
	_, _, err = minioEndpoint("ftp://host")
	assert.Error(t, err)
}

func TestMinioErrClassification(t *testing.T) {
	assert.NoError(t, minioErr(nil))
	assert.Equal(t, KindNotFound, KindOf(minioErr(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})))
	assert.Equal(t, KindAuthFailure, KindOf(minioErr(minio.ErrorResponse{Code: "Whatever", StatusCode: 403})))
	assert.Equal(t, KindUnknown, KindOf(minioErr(errors.New("x"))))
}

func TestNewMinio(t *testing.T) {
	_, err := NewMinio(Config{Endpoint: "http://localhost:9000"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	store, err := NewMinio(Config{Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b", UsePathStyle: true})
	require.NoError(t, err)
	assert.Equal(t, DriverMinio, store.Driver())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Config{Driver: "Memory", Buckets: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, store.Driver())
	objects, err := store.ListObjects(ctx, "x", "")
	require.NoError(t, err)
	assert.Empty(t, objects)

	_, err = Open(ctx, Config{Driver: "gcs"})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, Config{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.StorageConfig{
		Driver:       DriverMemory,
		Endpoint:     "http://localhost:4566",
		AccessKey:    "test",
		SecretKey:    "secret",
		Region:       "sa-east-1",
		Bucket:       "alanceloth",
		UsePathStyle: true,
	})
	assert.Equal(t, []string{"alanceloth"}, cfg.Buckets)
	assert.Equal(t, "http://localhost:4566", cfg.Endpoint)
	assert.True(t, cfg.UsePathStyle)

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	_, err = store.ListObjects(context.Background(), "alanceloth", "")
	assert.NoError(t, err)

	assert.Empty(t, ConfigFrom(config.StorageConfig{}).Buckets)
}
