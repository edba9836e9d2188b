package results

import (
	"context"

	"github.com/JaimeStill/veritas/pkg/pagination"
)

// System defines the public contract for training result operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Result], error)

	// Latest returns the most recent result, limited to splitRatio when non-nil.
	// Returns ErrNotFound when no result exists.
	Latest(ctx context.Context, splitRatio *int) (*Result, error)
	// LatestByRatio returns the most recent result for every supported split
	// ratio, with nil entries for ratios that have never been trained.
	LatestByRatio(ctx context.Context) (map[int]*Result, error)
	Summary(ctx context.Context) (*Summary, error)

	// Record inserts a result and backfills its predictions in one transaction.
	Record(ctx context.Context, cmd RecordCommand) (*Recorded, error)
}
