package datasets

import "context"

// System defines the public contract for dataset ingestion.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Ingest replaces the dataset for cmd.SplitRatio with the contents of the
	// archive and dispatches training. It blocks until dispatch.
	Ingest(ctx context.Context, cmd IngestCommand) (*Report, error)
}

type system struct {
	*ingestor
}

// New creates a dataset System from the given runtime.
func New(rt *Runtime) System {
	return &system{ingestor: newIngestor(rt)}
}

func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, s.scratchDir, maxUploadSize)
}
