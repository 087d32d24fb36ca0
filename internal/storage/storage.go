package storage

import (
	"context"
	"time"
)

// Driver names accepted by Open.
const (
	DriverS3     = "s3"
	DriverMinio  = "minio"
	DriverMemory = "memory"
)

// ObjectInfo represents metadata for a remote object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStorage captures the S3-compatible operations the gateway needs.
// Implementations tag their errors with an ErrorKind where they can tell.
type ObjectStorage interface {
	Driver() string
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	UploadFile(ctx context.Context, bucket, key, localPath string) error
	DownloadFile(ctx context.Context, bucket, key, destPath string) error
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	DeleteObject(ctx context.Context, bucket, key string) error
	CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error
}

// Config selects and configures a driver.
type Config struct {
	Driver             string
	Endpoint           string
	AccessKey          string
	SecretKey          string
	Region             string
	UsePathStyle       bool
	InsecureSkipVerify bool
	// Buckets are created up front by the memory driver.
	Buckets []string
}
