package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/alanceloth/datagen/pkg/logger"
)

// Uploader is the part of Service the publisher needs.
type Uploader interface {
	UploadFile(ctx context.Context, folderID, localPath string) (*File, error)
}

// Publisher copies generated dataset files into a Drive folder.
type Publisher struct {
	uploader Uploader
	folderID string
	log      zerolog.Logger
}

func NewPublisher(uploader Uploader, folderID string) *Publisher {
	return &Publisher{
		uploader: uploader,
		folderID: folderID,
		log:      logger.Component("drive"),
	}
}

// PublishFiles uploads files in order and stops at the first failure.
func (p *Publisher) PublishFiles(ctx context.Context, files []string) ([]*File, error) {
	published := make([]*File, 0, len(files))
	for _, path := range files {
		f, err := p.uploader.UploadFile(ctx, p.folderID, path)
		if err != nil {
			return published, err
		}
		p.log.Info().Str("file", path).Str("drive_id", f.ID).Msg("published file")
		published = append(published, f)
	}
	return published, nil
}

// PublishDir uploads every regular file directly inside dir, by name.
func (p *Publisher) PublishDir(ctx context.Context, dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return p.PublishFiles(ctx, files)
}
