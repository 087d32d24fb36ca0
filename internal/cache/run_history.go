package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanceloth/datagen/internal/config"
)

const runHistoryKey = "datagen:runs"

// RunRecord summarises one generation run.
type RunRecord struct {
	RunID        string         `json:"run_id"`
	Label        string         `json:"label"`
	Format       string         `json:"format"`
	OutputDir    string         `json:"output_dir"`
	Files        []string       `json:"files,omitempty"`
	Rows         map[string]int `json:"rows,omitempty"`
	DurationMS   int64          `json:"duration_ms"`
	Uploaded     []string       `json:"uploaded,omitempty"`
	UploadErrors []string       `json:"upload_errors,omitempty"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// RunHistory keeps the most recent runs, newest first.
type RunHistory interface {
	Record(ctx context.Context, rec RunRecord) error
	Recent(ctx context.Context, limit int) ([]RunRecord, error)
	Clear(ctx context.Context) error
}

type redisRunHistory struct {
	client *redis.Client
	ttl    time.Duration
	limit  int
}

type noopRunHistory struct{}

// NewRunHistory connects to Redis when caching is enabled and returns a
// no-op history otherwise.
func NewRunHistory(cfg config.CacheConfig) (RunHistory, error) {
	if !cfg.Enabled {
		return &noopRunHistory{}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	ttl, limit := historySettings(cfg)
	return &redisRunHistory{client: client, ttl: ttl, limit: limit}, nil
}

// NewRedisRunHistory wraps an existing client.
func NewRedisRunHistory(client *redis.Client, ttl time.Duration, limit int) RunHistory {
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &redisRunHistory{client: client, ttl: ttl, limit: limit}
}

func NewNoopRunHistory() RunHistory {
	return &noopRunHistory{}
}

func (h *redisRunHistory) Record(ctx context.Context, rec RunRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, runHistoryKey, payload)
	pipe.LTrim(ctx, runHistoryKey, 0, int64(h.limit-1))
	pipe.Expire(ctx, runHistoryKey, h.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record run failed: %w", err)
	}
	return nil
}

func (h *redisRunHistory) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > h.limit {
		limit = h.limit
	}
	payloads, err := h.client.LRange(ctx, runHistoryKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read runs failed: %w", err)
	}

	records := make([]RunRecord, 0, len(payloads))
	for _, p := range payloads {
		var rec RunRecord
		if err := json.Unmarshal([]byte(p), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode run record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (h *redisRunHistory) Clear(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, h.client, runHistoryKey, scanBatchSize)
}

func (noopRunHistory) Record(context.Context, RunRecord) error { return nil }

func (noopRunHistory) Recent(context.Context, int) ([]RunRecord, error) { return nil, nil }

func (noopRunHistory) Clear(context.Context) error { return nil }
