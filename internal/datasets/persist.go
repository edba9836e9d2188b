package datasets

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/pkg/storage"
)

// Batch describes one partition of one class to persist.
type Batch struct {
	Dir        string
	Files      []string
	Class      images.Class
	Split      images.Split
	SplitRatio int
}

// PersistResult counts what a Persist call wrote.
type PersistResult struct {
	Rows    int
	Skipped int
	Chunks  int
}

// Persister copies files into the content store and records their metadata
// in chunks of ChunkSize, one bulk insert per non-empty chunk.
type Persister struct {
	store   Store
	storage storage.System
	metrics *Metrics
	logger  *slog.Logger
}

// NewPersister creates a Persister. metrics may be nil.
func NewPersister(store Store, blobs storage.System, metrics *Metrics, logger *slog.Logger) *Persister {
	return &Persister{
		store:   store,
		storage: blobs,
		metrics: metrics,
		logger:  logger,
	}
}

// Persist writes every file in b. Unreadable or unwritable files are logged
// and left out of their chunk's insert; a failed insert aborts the batch.
func (p *Persister) Persist(ctx context.Context, b Batch) (PersistResult, error) {
	var res PersistResult

	for start := 0; start < len(b.Files); start += ChunkSize {
		end := min(start+ChunkSize, len(b.Files))

		cmds := p.writeChunk(ctx, b, b.Files[start:end])
		res.Skipped += (end - start) - len(cmds)

		if len(cmds) == 0 {
			continue
		}

		n, err := p.store.InsertBatch(ctx, cmds)
		if err != nil {
			return res, fmt.Errorf("insert %s/%s chunk %d: %w", b.Class, b.Split, res.Chunks+1, err)
		}

		res.Rows += n
		res.Chunks++
		p.metrics.persisted(b.Class, b.Split, n)
	}

	p.logger.Info(
		"partition persisted",
		"class", b.Class,
		"split", b.Split,
		"split_ratio", b.SplitRatio,
		"rows", res.Rows,
		"skipped", res.Skipped,
		"chunks", res.Chunks,
	)

	return res, nil
}

func (p *Persister) writeChunk(ctx context.Context, b Batch, files []string) []images.CreateCommand {
	cmds := make([]images.CreateCommand, 0, len(files))

	for _, name := range files {
		src := filepath.Join(b.Dir, name)

		data, err := os.ReadFile(src)
		if err != nil {
			p.logger.Warn("skipping unreadable file", "path", src, "error", err)
			p.metrics.skipped("unreadable")
			continue
		}

		sanitized := SanitizeFilename(name)
		key := StoragePath(b.SplitRatio, b.Split, b.Class, sanitized)

		if err := p.storage.Upload(ctx, key, bytes.NewReader(data), contentType(name)); err != nil {
			p.logger.Error("skipping file after write failure", "key", key, "error", err)
			p.metrics.skipped("write_failed")
			continue
		}

		cmds = append(cmds, images.CreateCommand{
			Filename:   StoredFilename(b.Class, sanitized),
			Path:       key,
			Type:       b.Class,
			Split:      b.Split,
			SplitRatio: b.SplitRatio,
		})
	}

	return cmds
}

// SanitizeFilename replaces every rune outside [A-Za-z0-9._-] with '_'.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// StoredFilename is the class-prefixed name recorded on the image row.
func StoredFilename(class images.Class, sanitized string) string {
	return string(class) + "_" + sanitized
}

// StoragePath is the content store key for an image. Unlike StoredFilename
// it carries no class prefix on the final segment.
func StoragePath(splitRatio int, split images.Split, class images.Class, sanitized string) string {
	return fmt.Sprintf("images/%d/%s/%s/%s", splitRatio, split, class, sanitized)
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
