package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/pkg/pagination"
	"github.com/JaimeStill/veritas/pkg/query"
	"github.com/JaimeStill/veritas/pkg/repository"
)

type repo struct {
	db         *sql.DB
	images     images.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a training result repository implementing the System interface.
func New(
	db *sql.DB,
	imgs images.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		images:     imgs,
		logger:     logger.With("system", "results"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.images, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Result], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanResult)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Latest(ctx context.Context, splitRatio *int) (*Result, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SplitRatio", splitRatio).
		BuildFirst()

	res, err := repository.QueryOne(ctx, r.db, q, args, scanResult)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &res, nil
}

func (r *repo) LatestByRatio(ctx context.Context) (map[int]*Result, error) {
	latest := make(map[int]*Result, len(images.SplitRatios))

	for _, ratio := range images.SplitRatios {
		res, err := r.Latest(ctx, &ratio)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				latest[ratio] = nil
				continue
			}
			return nil, fmt.Errorf("latest result for ratio %d: %w", ratio, err)
		}
		latest[ratio] = res
	}

	return latest, nil
}

func (r *repo) Summary(ctx context.Context) (*Summary, error) {
	var s Summary

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM training_results").Scan(&s.TotalModels); err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	totalImages, err := r.images.Count(ctx, images.Filters{})
	if err != nil {
		return nil, err
	}
	s.TotalImages = totalImages

	if s.BestAccuracy, err = r.best(ctx, "Accuracy"); err != nil {
		return nil, err
	}
	if s.BestF1, err = r.best(ctx, "F1Score"); err != nil {
		return nil, err
	}
	if s.BestAUCROC, err = r.best(ctx, "AUCROC"); err != nil {
		return nil, err
	}

	latest, err := r.Latest(ctx, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	s.Latest = latest
	s.Criteria = EvaluateCriteria(latest)

	return &s, nil
}

// best returns the highest value of field; ties resolve to the earliest result.
func (r *repo) best(ctx context.Context, field string) (*Best, error) {
	q, args := query.
		NewBuilder(projection).
		OrderByFields([]query.SortField{
			{Field: field, Descending: true},
			{Field: "CreatedAt"},
		}).
		BuildFirst()

	res, err := repository.QueryOne(ctx, r.db, q, args, scanResult)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("best %s: %w", field, err)
	}

	b := &Best{SplitRatio: res.SplitRatio}
	switch field {
	case "Accuracy":
		b.Value = res.Accuracy
	case "F1Score":
		b.Value = res.F1Score
	case "AUCROC":
		b.Value = res.AUCROC
	}
	return b, nil
}

func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Recorded, error) {
	if !images.ValidSplitRatio(cmd.SplitRatio) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSplitRatio, cmd.SplitRatio)
	}

	if cmd.ConfusionMatrix != nil {
		if err := cmd.ConfusionMatrix.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMatrix, err)
		}
	}

	matrix, err := marshalMatrix(cmd.ConfusionMatrix)
	if err != nil {
		return nil, fmt.Errorf("marshal confusion matrix: %w", err)
	}

	insertArgs := []any{
		cmd.Metrics.Accuracy,
		cmd.Metrics.Precision,
		cmd.Metrics.Recall,
		cmd.Metrics.F1Score,
		cmd.Metrics.AUCROC,
		matrix,
		cmd.SplitRatio,
	}

	recorded, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Recorded, error) {
		res, err := repository.QueryOne(ctx, tx, insertResult, insertArgs, scanResult)
		if err != nil {
			return nil, err
		}

		updated, err := applyPredictions(ctx, tx, cmd.SplitRatio, cmd.Predictions)
		if err != nil {
			return nil, err
		}

		return &Recorded{Result: &res, Updated: updated}, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"training result recorded",
		"id", recorded.Result.ID,
		"split_ratio", cmd.SplitRatio,
		"predictions", len(cmd.Predictions),
		"updated", recorded.Updated,
	)

	return recorded, nil
}

func applyPredictions(
	ctx context.Context,
	tx repository.Executor,
	splitRatio int,
	predictions []Prediction,
) (int, error) {
	var updated int64

	for start := 0; start < len(predictions); start += PredictionBatchSize {
		end := min(start+PredictionBatchSize, len(predictions))

		q, args := buildPredictionUpdate(splitRatio, predictions[start:end])
		n, err := repository.ExecAffected(ctx, tx, q, args...)
		if err != nil {
			return 0, fmt.Errorf("update predictions %d-%d: %w", start, end, err)
		}
		updated += n
	}

	return int(updated), nil
}
