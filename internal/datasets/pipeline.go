package datasets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/pkg/repository"
	"github.com/JaimeStill/veritas/pkg/storage"
)

const lockNamespace int64 = 0x76657269 << 32

// LockKey is the advisory lock key serializing ingestion for splitRatio.
func LockKey(splitRatio int) int64 {
	return lockNamespace | int64(splitRatio)
}

// Runtime holds the collaborators of an ingestion pipeline.
type Runtime struct {
	Store      Store
	Storage    storage.System
	Locker     repository.Locker
	Dispatcher Dispatcher
	Metrics    *Metrics
	Logger     *slog.Logger
	ScratchDir string
}

type ingestor struct {
	store      Store
	storage    storage.System
	locker     repository.Locker
	dispatcher Dispatcher
	metrics    *Metrics
	persister  *Persister
	logger     *slog.Logger
	scratchDir string
}

func newIngestor(rt *Runtime) *ingestor {
	logger := rt.Logger.With("system", "datasets")
	return &ingestor{
		store:      rt.Store,
		storage:    rt.Storage,
		locker:     rt.Locker,
		dispatcher: rt.Dispatcher,
		metrics:    rt.Metrics,
		persister:  NewPersister(rt.Store, rt.Storage, rt.Metrics, logger),
		logger:     logger,
		scratchDir: rt.ScratchDir,
	}
}

type run struct {
	state  State
	logger *slog.Logger
}

func (r *run) to(next State) {
	if !r.state.CanTransition(next) {
		r.logger.Error("invalid ingestion transition", "from", r.state, "to", next)
	}
	r.logger.Debug("ingestion state", "from", r.state, "to", next)
	r.state = next
}

func (r *run) fail(err error) error {
	from := r.state
	r.state = StateFailed
	r.logger.Error("ingestion failed", "state", from, "error", err)
	return &IngestError{State: from, Err: err}
}

// Ingest runs the full pipeline for cmd and returns once the training run has
// been dispatched. cmd.ArchivePath is removed on every exit path, as is the
// scratch directory once extraction has begun.
func (i *ingestor) Ingest(ctx context.Context, cmd IngestCommand) (*Report, error) {
	started := time.Now()
	logger := i.logger.With("split_ratio", cmd.SplitRatio)
	r := &run{state: StateIdle, logger: logger}

	defer func() {
		i.metrics.ingested(r.state, time.Since(started))
	}()
	defer removeArchive(cmd.ArchivePath, logger)

	if !images.ValidSplitRatio(cmd.SplitRatio) {
		return nil, r.fail(fmt.Errorf("%w: got %d", ErrInvalidSplitRatio, cmd.SplitRatio))
	}

	release, err := i.locker.Lock(ctx, LockKey(cmd.SplitRatio))
	if err != nil {
		return nil, r.fail(err)
	}
	defer release()

	report := &Report{
		SplitRatio: cmd.SplitRatio,
		Classes:    make(map[images.Class]ClassReport, len(images.Classes)),
	}

	r.to(StateReplacingPriorDataset)
	if report.Replaced, err = i.replace(ctx, cmd.SplitRatio); err != nil {
		return nil, r.fail(err)
	}

	r.to(StateExtracting)
	scratch, err := NewScratch(i.scratchDir, logger)
	if err != nil {
		return nil, r.fail(err)
	}
	defer scratch.Cleanup()

	files, err := Extract(ctx, cmd.ArchivePath, scratch.Dir)
	if err != nil {
		return nil, r.fail(err)
	}
	removeArchive(cmd.ArchivePath, logger)
	logger.Info("archive extracted", "files", files)

	r.to(StateDiscoveringFolders)
	folders, err := Discover(scratch.Dir)
	if err != nil {
		return nil, r.fail(err)
	}
	logger.Info("class folders discovered", "real", folders.Real, "fake", folders.Fake)

	r.to(StatePartitioningAndPersisting)
	if err := i.persistClasses(ctx, folders, cmd.SplitRatio, report); err != nil {
		return nil, r.fail(err)
	}

	r.to(StateCleaningUp)
	scratch.Cleanup()

	taskID, err := i.dispatcher.Dispatch(ctx, cmd.SplitRatio)
	if err != nil {
		return nil, r.fail(fmt.Errorf("%w: %v", ErrDispatch, err))
	}

	r.to(StateDispatched)
	report.TaskID = taskID
	report.State = r.state

	logger.Info(
		"dataset ingested",
		"rows", report.Rows,
		"replaced", report.Replaced,
		"task_id", taskID,
		"duration", time.Since(started),
	)

	return report, nil
}

func (i *ingestor) persistClasses(
	ctx context.Context,
	folders Folders,
	splitRatio int,
	report *Report,
) error {
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(images.Classes))

	for _, class := range images.Classes {
		g.Go(func() error {
			cr, err := i.persistClass(gctx, folders.For(class), class, splitRatio)
			if err != nil {
				return fmt.Errorf("persist %s: %w", class, err)
			}

			mu.Lock()
			report.Classes[class] = cr
			report.Rows += cr.Train + cr.Test
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

func (i *ingestor) persistClass(
	ctx context.Context,
	dir string,
	class images.Class,
	splitRatio int,
) (ClassReport, error) {
	var cr ClassReport

	files, err := Candidates(dir, i.logger)
	if err != nil {
		return cr, fmt.Errorf("list %s: %w", dir, err)
	}

	cr.Candidates = len(files)
	if len(files) == 0 {
		i.logger.Warn("class folder has no images", "class", class, "dir", dir)
		return cr, nil
	}

	train, test := Partition(files, splitRatio)

	for _, part := range []struct {
		split images.Split
		files []string
		count *int
	}{
		{images.SplitTrain, train, &cr.Train},
		{images.SplitTest, test, &cr.Test},
	} {
		res, err := i.persister.Persist(ctx, Batch{
			Dir:        dir,
			Files:      part.files,
			Class:      class,
			Split:      part.split,
			SplitRatio: splitRatio,
		})
		if err != nil {
			return cr, err
		}
		*part.count = res.Rows
		cr.Skipped += res.Skipped
	}

	return cr, nil
}
