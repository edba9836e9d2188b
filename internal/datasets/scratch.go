package datasets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// Scratch is a uniquely named temporary extraction directory.
type Scratch struct {
	Dir    string
	logger *slog.Logger
}

// NewScratch creates a scratch directory under parent (or the system temp
// directory when parent is empty).
func NewScratch(parent string, logger *slog.Logger) (*Scratch, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, fmt.Errorf("create scratch parent: %w", err)
		}
	}

	dir, err := os.MkdirTemp(parent, "ingest-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	return &Scratch{Dir: dir, logger: logger}, nil
}

// Cleanup removes the scratch directory and everything below it. Missing
// paths are a no-op and failures are logged, never returned.
func (s *Scratch) Cleanup() {
	if s == nil || s.Dir == "" {
		return
	}
	if err := os.RemoveAll(s.Dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("scratch cleanup failed", "dir", s.Dir, "error", err)
		return
	}
	s.logger.Debug("scratch removed", "dir", s.Dir)
}

func removeArchive(path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("archive removal failed", "path", path, "error", err)
	}
}
