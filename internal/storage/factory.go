package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/alanceloth/datagen/internal/config"
)

// Open builds the driver named by cfg.Driver. An empty name selects s3.
func Open(ctx context.Context, cfg Config) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverS3:
		return NewS3(ctx, cfg)
	case DriverMinio:
		return NewMinio(cfg)
	case DriverMemory:
		return NewMemory(cfg.Buckets...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// ConfigFrom maps the environment config onto a driver config. The memory
// driver starts with the configured bucket.
func ConfigFrom(cfg config.StorageConfig) Config {
	c := Config{
		Driver:             cfg.Driver,
		Endpoint:           cfg.Endpoint,
		AccessKey:          cfg.AccessKey,
		SecretKey:          cfg.SecretKey,
		Region:             cfg.Region,
		UsePathStyle:       cfg.UsePathStyle,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	if cfg.Bucket != "" {
		c.Buckets = []string{cfg.Bucket}
	}
	return c
}
