package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/alanceloth/datagen/internal/cache"
	"github.com/alanceloth/datagen/internal/config"
	"github.com/alanceloth/datagen/internal/dataset"
	"github.com/alanceloth/datagen/internal/generator"
	"github.com/alanceloth/datagen/internal/metrics"
	"github.com/alanceloth/datagen/internal/storage"
)

// ErrUploadUnavailable is returned when an upload is requested but no
// object store is configured.
var ErrUploadUnavailable = errors.New("object store upload is not configured")

// GenerateRequest describes one dataset run.
type GenerateRequest struct {
	Label  string         `json:"label"`
	Counts dataset.Counts `json:"counts"`
	Format dataset.Format `json:"format"`
	// OutputDir defaults to <output root>/<run id>.
	OutputDir string `json:"output_dir,omitempty"`
	Upload    bool   `json:"upload"`
	Bucket    string `json:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
}

// GenerateResult is the dataset result plus what happened to the upload.
type GenerateResult struct {
	RunID string `json:"run_id"`
	*dataset.Result
	Uploaded     []string `json:"uploaded,omitempty"`
	UploadErrors []string `json:"upload_errors,omitempty"`
}

type DatasetService struct {
	newGenerator  func() (*generator.Generator, error)
	outputRoot    string
	gateway       *storage.Gateway
	defaultBucket string
	history       cache.RunHistory
	metrics       *metrics.Metrics
}

type Option func(*DatasetService)

// WithGateway enables uploads; bucket is used when a request names none.
func WithGateway(gw *storage.Gateway, bucket string) Option {
	return func(s *DatasetService) {
		s.gateway = gw
		s.defaultBucket = bucket
	}
}

func WithHistory(h cache.RunHistory) Option {
	return func(s *DatasetService) {
		s.history = h
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DatasetService) {
		s.metrics = m
	}
}

func NewDatasetService(newGenerator func() (*generator.Generator, error), outputRoot string, opts ...Option) *DatasetService {
	s := &DatasetService{
		newGenerator: newGenerator,
		outputRoot:   outputRoot,
		history:      cache.NewNoopRunHistory(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate assembles a dataset and optionally uploads its files. Upload
// failures are reported in the result and never fail the call.
func (s *DatasetService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.Upload && s.gateway == nil {
		return nil, ErrUploadUnavailable
	}
	if req.Format == "" {
		req.Format = dataset.FormatCSV
	}
	runID := uuid.NewString()
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(s.outputRoot, runID)
	}
	label := req.Label
	if label == "" {
		label = string(req.Format)
	}

	record := cache.RunRecord{
		RunID:     runID,
		Label:     label,
		Format:    string(req.Format),
		OutputDir: outputDir,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.assemble(ctx, outputDir, req)
	if err != nil {
		record.Error = err.Error()
		s.record(ctx, record)
		return nil, err
	}

	out := &GenerateResult{RunID: runID, Result: res}
	if req.Upload {
		out.Uploaded, out.UploadErrors = s.upload(ctx, res.Files, req.Bucket, req.Prefix)
	}

	record.Files = res.Files
	record.Rows = res.Rows
	record.DurationMS = res.Duration.Milliseconds()
	record.Uploaded = out.Uploaded
	record.UploadErrors = out.UploadErrors
	s.record(ctx, record)

	log.Info().
		Str("run_id", runID).
		Str("label", label).
		Str("output_dir", outputDir).
		Int("uploaded", len(out.Uploaded)).
		Int("upload_errors", len(out.UploadErrors)).
		Msg("dataset run finished")
	return out, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *DatasetService) RecentRuns(ctx context.Context, limit int) ([]cache.RunRecord, error) {
	return s.history.Recent(ctx, limit)
}

func (s *DatasetService) assemble(ctx context.Context, outputDir string, req GenerateRequest) (*dataset.Result, error) {
	gen, err := s.newGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	assembler, err := dataset.NewAssembler(gen, outputDir, req.Format, dataset.WithMetrics(s.metrics))
	if err != nil {
		return nil, err
	}
	return assembler.Assemble(ctx, req.Counts)
}

func (s *DatasetService) upload(ctx context.Context, files []string, bucket, prefix string) ([]string, []string) {
	if bucket == "" {
		bucket = s.defaultBucket
	}
	var uploaded, failures []string
	for _, file := range files {
		key := path.Join(prefix, filepath.Base(file))
		if err := s.gateway.Upload(ctx, file, bucket, key); err != nil {
			failures = append(failures, err.Error())
			continue
		}
		uploaded = append(uploaded, key)
	}
	return uploaded, failures
}

func (s *DatasetService) record(ctx context.Context, rec cache.RunRecord) {
	if err := s.history.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Str("run_id", rec.RunID).Msg("failed to record run history")
	}
}

// GeneratorFactory builds generators from config. A zero seed gives each
// generator a random seed.
func GeneratorFactory(cfg config.GeneratorConfig) func() (*generator.Generator, error) {
	return func() (*generator.Generator, error) {
		opts := []generator.Option{generator.WithSeed(cfg.Seed)}
		if cfg.MaxDocumentAttempts > 0 {
			opts = append(opts, generator.WithMaxDocumentAttempts(cfg.MaxDocumentAttempts))
		}
		return generator.New(opts...)
	}
}
