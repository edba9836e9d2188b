// Package datasets ingests labeled image archives. An ingestion replaces the
// prior generation for its split ratio, extracts the archive, locates the
// class folders, partitions each class into train and test sets, persists
// files and metadata in bounded chunks, and dispatches a training run.
package datasets

import (
	"context"

	"github.com/JaimeStill/veritas/internal/images"
)

// ChunkSize is the maximum number of files held in memory and inserted per
// metadata statement.
const ChunkSize = 30

// Store is the persistence surface ingestion needs. The SQL implementation
// lives in store.go; tests substitute fakes.
type Store interface {
	// Count returns the number of image rows for splitRatio.
	Count(ctx context.Context, splitRatio int) (int, error)
	// Purge deletes every image and training result row for splitRatio in a
	// single transaction and returns the storage paths of the removed images.
	Purge(ctx context.Context, splitRatio int) ([]string, error)
	// InsertBatch writes cmds as one multi-row insert and returns the row count.
	InsertBatch(ctx context.Context, cmds []images.CreateCommand) (int, error)
}

// Dispatcher hands a training run for splitRatio to the asynchronous worker
// and returns the identifier of the enqueued unit of work.
type Dispatcher interface {
	Dispatch(ctx context.Context, splitRatio int) (string, error)
}

// Folders holds the resolved class directories of an extracted archive.
type Folders struct {
	Real string `json:"real"`
	Fake string `json:"fake"`
}

// For returns the directory for class.
func (f Folders) For(class images.Class) string {
	if class == images.ClassReal {
		return f.Real
	}
	return f.Fake
}

// IngestCommand is a request to ingest the archive at ArchivePath.
// Ingest removes ArchivePath on every exit path.
type IngestCommand struct {
	ArchivePath string
	SplitRatio  int
}

// ClassReport summarizes the persisted files of one class.
type ClassReport struct {
	Candidates int `json:"candidates"`
	Train      int `json:"train"`
	Test       int `json:"test"`
	Skipped    int `json:"skipped"`
}

// Report is returned from a successful ingestion.
type Report struct {
	SplitRatio int                          `json:"split_ratio"`
	Replaced   int                          `json:"replaced"`
	Classes    map[images.Class]ClassReport `json:"classes"`
	Rows       int                          `json:"rows"`
	TaskID     string                       `json:"task_id"`
	State      State                        `json:"state"`
}
