package datasets

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/veritas/pkg/storage"
)

// replace removes the prior generation for splitRatio: its image rows and
// training results, then the stored image files. It returns the number of
// image rows removed.
func (i *ingestor) replace(ctx context.Context, splitRatio int) (int, error) {
	existing, err := i.store.Count(ctx, splitRatio)
	if err != nil {
		return 0, fmt.Errorf("count prior images: %w", err)
	}
	if existing == 0 {
		return 0, nil
	}

	paths, err := i.store.Purge(ctx, splitRatio)
	if err != nil {
		return 0, fmt.Errorf("purge prior dataset: %w", err)
	}

	for _, path := range paths {
		if err := i.storage.Delete(ctx, path); err != nil && !errors.Is(err, storage.ErrNotFound) {
			i.logger.Warn("prior image delete failed", "key", path, "error", err)
		}
	}

	i.logger.Info("prior dataset replaced", "split_ratio", splitRatio, "images", len(paths))
	return len(paths), nil
}
