package images

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/veritas/pkg/pagination"
)

// System defines the public contract for image queries.
// Image rows are written by dataset ingestion and updated by training runs;
// this system only reads them.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Image], error)

	Find(ctx context.Context, id uuid.UUID) (*Image, error)
	Count(ctx context.Context, filters Filters) (int, error)
}
