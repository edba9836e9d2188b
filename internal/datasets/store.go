package datasets

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/pkg/repository"
)

var imageColumns = []string{"filename", "path", "type", "split", "split_ratio"}

type store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates the PostgreSQL-backed Store.
func NewStore(db *sql.DB, logger *slog.Logger) Store {
	return &store{
		db:     db,
		logger: logger.With("system", "datasets.store"),
	}
}

func (s *store) Count(ctx context.Context, splitRatio int) (int, error) {
	var n int
	err := s.db.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM images WHERE split_ratio = $1",
		splitRatio,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return n, nil
}

func (s *store) Purge(ctx context.Context, splitRatio int) ([]string, error) {
	return repository.WithTx(ctx, s.db, func(tx *sql.Tx) ([]string, error) {
		paths, err := repository.QueryMany(
			ctx, tx,
			"DELETE FROM images WHERE split_ratio = $1 RETURNING path",
			[]any{splitRatio},
			scanPath,
		)
		if err != nil {
			return nil, fmt.Errorf("delete images: %w", err)
		}

		n, err := repository.ExecAffected(ctx, tx, "DELETE FROM training_results WHERE split_ratio = $1", splitRatio)
		if err != nil {
			return nil, fmt.Errorf("delete training results: %w", err)
		}

		if n > 0 {
			s.logger.Info("training results purged", "split_ratio", splitRatio, "count", n)
		}

		return paths, nil
	})
}

func (s *store) InsertBatch(ctx context.Context, cmds []images.CreateCommand) (int, error) {
	rows := make([][]any, len(cmds))
	for i, cmd := range cmds {
		rows[i] = []any{
			cmd.Filename,
			cmd.Path,
			string(cmd.Type),
			string(cmd.Split),
			cmd.SplitRatio,
		}
	}

	q, args, err := repository.BulkInsert("images", imageColumns, rows)
	if err != nil {
		return 0, err
	}
	if q == "" {
		return 0, nil
	}

	n, err := repository.ExecAffected(ctx, s.db, q, args...)
	if err != nil {
		return 0, repository.MapError(err, images.ErrNotFound, images.ErrDuplicate)
	}
	return int(n), nil
}

func scanPath(s repository.Scanner) (string, error) {
	var path string
	err := s.Scan(&path)
	return path, err
}
