package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memObject struct {
	data     []byte
	modified time.Time
}

// MemoryStore is an in-process ObjectStorage used by tests and the
// "memory" driver. Deleting a missing key succeeds, as it does on S3.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]memObject
}

// NewMemory creates a store holding the given empty buckets.
func NewMemory(buckets ...string) *MemoryStore {
	m := &MemoryStore{buckets: make(map[string]map[string]memObject)}
	for _, b := range buckets {
		m.CreateBucket(b)
	}
	return m
}

func (m *MemoryStore) CreateBucket(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[name]; !ok {
		m.buckets[name] = make(map[string]memObject)
	}
}

func (m *MemoryStore) Driver() string { return DriverMemory }

func (m *MemoryStore) bucket(name string) (map[string]memObject, error) {
	b, ok := m.buckets[name]
	if !ok {
		return nil, withKind(KindNotFound, fmt.Errorf("%w: bucket %s", ErrNotFound, name))
	}
	return b, nil
}

func (m *MemoryStore) ListObjects(_ context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return nil, err
	}
	infos := make([]ObjectInfo, 0, len(b))
	for key, obj := range b {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, ObjectInfo{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (m *MemoryStore) UploadFile(ctx context.Context, bucket, key, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	return m.PutObject(ctx, bucket, key, data)
}

func (m *MemoryStore) DownloadFile(_ context.Context, bucket, key, destPath string) error {
	m.mu.RLock()
	b, err := m.bucket(bucket)
	if err != nil {
		m.mu.RUnlock()
		return err
	}
	obj, ok := b[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}

	if dir := filepath.Dir(destPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed creating directory for %s: %w", destPath, err)
		}
	}
	return os.WriteFile(destPath, obj.data, 0o644)
}

func (m *MemoryStore) PutObject(_ context.Context, bucket, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	b[key] = memObject{data: append([]byte(nil), data...), modified: time.Now().UTC()}
	return nil
}

func (m *MemoryStore) DeleteObject(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	delete(b, key)
	return nil
}

func (m *MemoryStore) CopyObject(_ context.Context, bucket, srcKey, dstKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	obj, ok := b[srcKey]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, srcKey)
	}
	b[dstKey] = memObject{data: append([]byte(nil), obj.data...), modified: time.Now().UTC()}
	return nil
}

var _ ObjectStorage = (*MemoryStore)(nil)
