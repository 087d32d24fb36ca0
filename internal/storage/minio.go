package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements ObjectStorage with the MinIO client.
type MinioStore struct {
	client *minio.Client
}

// NewMinio connects to cfg.Endpoint. An endpoint without a scheme is
// treated as https.
func NewMinio(cfg Config) (*MinioStore, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrMissingCredentials
	}
	host, secure, err := minioEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	opts := &minio.Options{
		Creds:        miniocreds.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: minio.BucketLookupAuto,
	}
	if cfg.UsePathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	if cfg.InsecureSkipVerify && secure {
		tr, err := minio.DefaultTransport(secure)
		if err != nil {
			return nil, fmt.Errorf("failed to build minio transport: %w", err)
		}
		tr.TLSClientConfig.InsecureSkipVerify = true
		opts.Transport = tr
	}

	client, err := minio.New(host, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

// minioEndpoint splits a URL into the host[:port] minio.New expects and
// whether TLS is used.
func minioEndpoint(endpoint string) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("minio endpoint must be provided")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(strings.TrimPrefix(endpoint, "//"), "/"), true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid minio endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("unsupported minio endpoint scheme %q", u.Scheme)
	}
}

func (m *MinioStore) Driver() string { return DriverMinio }

func (m *MinioStore) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	var infos []ObjectInfo
	for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, minioErr(obj.Err)
		}
		infos = append(infos, ObjectInfo{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (m *MinioStore) UploadFile(ctx context.Context, bucket, key, localPath string) error {
	_, err := m.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{})
	return minioErr(err)
}

func (m *MinioStore) DownloadFile(ctx context.Context, bucket, key, destPath string) error {
	return minioErr(m.client.FGetObject(ctx, bucket, key, destPath, minio.GetObjectOptions{}))
}

func (m *MinioStore) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	_, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return minioErr(err)
}

func (m *MinioStore) DeleteObject(ctx context.Context, bucket, key string) error {
	return minioErr(m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}))
}

func (m *MinioStore) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: bucket, Object: srcKey},
	)
	return minioErr(err)
}

// minioErr tags server error responses with their kind.
func minioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if kind, ok := kindForCode(resp.Code); ok {
		return withKind(kind, err)
	}
	if kind, ok := kindForStatus(resp.StatusCode); ok {
		return withKind(kind, err)
	}
	return err
}

var _ ObjectStorage = (*MinioStore)(nil)
