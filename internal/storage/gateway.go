package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alanceloth/datagen/internal/metrics"
	"github.com/alanceloth/datagen/pkg/logger"
)

// Gateway exposes the bucket file operations on top of an ObjectStorage
// driver. Each call is independent and synchronous with no retry. Failures
// are logged, counted and returned as *Error.
type Gateway struct {
	store   ObjectStorage
	metrics *metrics.Metrics
	log     zerolog.Logger
}

type GatewayOption func(*Gateway)

func WithGatewayMetrics(m *metrics.Metrics) GatewayOption {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// NewGateway wraps store.
func NewGateway(store ObjectStorage, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		store: store,
		log:   logger.Component("gateway").With().Str("driver", store.Driver()).Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// List returns every object key in bucket.
func (g *Gateway) List(ctx context.Context, bucket string) ([]string, error) {
	objects, err := g.ListObjects(ctx, bucket, "")
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// ListObjects returns the objects under prefix with their metadata.
func (g *Gateway) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	objects, err := g.store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, g.fail("list", bucket, prefix, err)
	}
	g.ok("list")
	g.log.Debug().Str("bucket", bucket).Str("prefix", prefix).Int("objects", len(objects)).Msg("listed objects")
	return objects, nil
}

// Upload stores localPath under key. An empty key uses the file's base name.
func (g *Gateway) Upload(ctx context.Context, localPath, bucket, key string) error {
	if key == "" {
		key = filepath.Base(localPath)
	}
	if err := g.store.UploadFile(ctx, bucket, key, localPath); err != nil {
		return g.fail("upload", bucket, key, err)
	}
	g.ok("upload")
	g.log.Info().Str("bucket", bucket).Str("key", key).Str("file", localPath).Msg("uploaded file")
	return nil
}

// Download writes the object to localPath.
func (g *Gateway) Download(ctx context.Context, bucket, key, localPath string) error {
	if err := g.store.DownloadFile(ctx, bucket, key, localPath); err != nil {
		return g.fail("download", bucket, key, err)
	}
	g.ok("download")
	g.log.Info().Str("bucket", bucket).Str("key", key).Str("file", localPath).Msg("downloaded file")
	return nil
}

func (g *Gateway) Delete(ctx context.Context, bucket, key string) error {
	if key == "" {
		return g.fail("delete", bucket, key, ErrInvalidKey)
	}
	if err := g.store.DeleteObject(ctx, bucket, key); err != nil {
		return g.fail("delete", bucket, key, err)
	}
	g.ok("delete")
	g.log.Info().Str("bucket", bucket).Str("key", key).Msg("deleted object")
	return nil
}

// CreateFolder writes the empty "folder/" marker object.
func (g *Gateway) CreateFolder(ctx context.Context, bucket, folder string) error {
	prefix, err := folderPrefix(folder)
	if err != nil {
		return g.fail("create_folder", bucket, folder, err)
	}
	if err := g.store.PutObject(ctx, bucket, prefix, nil); err != nil {
		return g.fail("create_folder", bucket, prefix, err)
	}
	g.ok("create_folder")
	g.log.Info().Str("bucket", bucket).Str("folder", prefix).Msg("created folder")
	return nil
}

// DeleteFolder removes every object under "folder/", marker included.
// It stops at the first failed delete; objects already removed stay removed.
func (g *Gateway) DeleteFolder(ctx context.Context, bucket, folder string) error {
	prefix, err := folderPrefix(folder)
	if err != nil {
		return g.fail("delete_folder", bucket, folder, err)
	}
	objects, err := g.store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return g.fail("delete_folder", bucket, prefix, err)
	}
	for _, obj := range objects {
		if err := g.store.DeleteObject(ctx, bucket, obj.Key); err != nil {
			return g.fail("delete_folder", bucket, obj.Key, err)
		}
	}
	g.ok("delete_folder")
	g.log.Info().Str("bucket", bucket).Str("folder", prefix).Int("objects", len(objects)).Msg("deleted folder")
	return nil
}

// Move copies src to dst and then deletes src. If the delete fails the
// copy is left in place. Moving a key onto itself is rejected.
func (g *Gateway) Move(ctx context.Context, bucket, src, dst string) error {
	if src == "" || dst == "" {
		return g.fail("move", bucket, src, ErrInvalidKey)
	}
	if src == dst {
		return g.fail("move", bucket, src, fmt.Errorf("%w: source and destination are the same", ErrInvalidKey))
	}
	if err := g.store.CopyObject(ctx, bucket, src, dst); err != nil {
		return g.fail("move", bucket, src, err)
	}
	if err := g.store.DeleteObject(ctx, bucket, src); err != nil {
		return g.fail("move", bucket, src, fmt.Errorf("copied to %s but source delete failed: %w", dst, err))
	}
	g.ok("move")
	g.log.Info().Str("bucket", bucket).Str("from", src).Str("to", dst).Msg("moved object")
	return nil
}

func (g *Gateway) ok(op string) {
	g.metrics.GatewayOp(op, "ok")
}

func (g *Gateway) fail(op, bucket, key string, err error) error {
	e := &Error{Op: op, Bucket: bucket, Key: key, Kind: KindOf(err), Err: err}
	g.metrics.GatewayOp(op, e.Kind.String())
	g.log.Error().
		Err(err).
		Str("op", op).
		Str("bucket", bucket).
		Str("key", key).
		Str("kind", e.Kind.String()).
		Msg("object store operation failed")
	return e
}

func folderPrefix(folder string) (string, error) {
	trimmed := strings.Trim(folder, "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty folder name", ErrInvalidKey)
	}
	return trimmed + "/", nil
}
