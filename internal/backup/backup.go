// Package backup copies the soundboard library off-site: the mapping
// document plus every music and icon asset.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/bardbox/bardbox/internal/asset"
)

// Uploader is the destination for backed-up files.
type Uploader interface {
	Upload(ctx context.Context, localPath, objectName string) error
	Close() error
}

// Service walks the library and pushes every file through the uploader.
type Service struct {
	uploader    Uploader
	mappingPath string
	music       *asset.Store
	icons       *asset.Store
}

func NewService(uploader Uploader, mappingPath string, music, icons *asset.Store) *Service {
	return &Service{uploader: uploader, mappingPath: mappingPath, music: music, icons: icons}
}

// Run uploads the mapping document and all assets, returning the number of
// files copied. The first failure aborts the run.
func (s *Service) Run(ctx context.Context) (int, error) {
	count := 0

	if _, err := os.Stat(s.mappingPath); err == nil {
		if err := s.uploader.Upload(ctx, s.mappingPath, "mappings.json"); err != nil {
			return count, fmt.Errorf("failed to back up mapping document: %w", err)
		}
		count++
	}

	stores := []struct {
		prefix string
		store  *asset.Store
	}{
		{"music", s.music},
		{"icons", s.icons},
	}

	for _, entry := range stores {
		names, err := entry.store.List()
		if err != nil {
			return count, err
		}
		for _, name := range names {
			if err := s.uploader.Upload(ctx, entry.store.Path(name), path.Join(entry.prefix, name)); err != nil {
				return count, fmt.Errorf("failed to back up %s: %w", name, err)
			}
			count++
		}
	}

	slog.Info("Library backup completed", "files", count)
	return count, nil
}
