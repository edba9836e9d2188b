package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/JaimeStill/veritas/internal/results"
)

// Processor executes training run tasks on the worker.
type Processor struct {
	backend Backend
	results results.System
	metrics *Metrics
	logger  *slog.Logger
}

// NewProcessor creates a Processor. metrics may be nil.
func NewProcessor(backend Backend, res results.System, metrics *Metrics, logger *slog.Logger) *Processor {
	return &Processor{
		backend: backend,
		results: res,
		metrics: metrics,
		logger:  logger.With("system", "training"),
	}
}

// Register binds the processor to its task type on mux.
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeRun, p.ProcessTask)
}

// ProcessTask trains on the task's split ratio and records the outcome.
// Nothing is recorded unless training and parsing both succeed.
func (p *Processor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := ParsePayload(t)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	ratio := payload.SplitRatio
	logger := p.logger.With("split_ratio", ratio)
	started := time.Now()

	outcome, err := p.backend.Train(ctx, ratio)
	if err != nil {
		p.metrics.run(ratio, failureOutcome(err), time.Since(started))
		logger.Error("training failed", "error", err)
		return err
	}

	if outcome.Dropped > 0 {
		logger.Warn("invalid prediction entries dropped", "count", outcome.Dropped)
	}

	recorded, err := p.results.Record(ctx, results.RecordCommand{
		SplitRatio:      ratio,
		Metrics:         outcome.Metrics,
		ConfusionMatrix: outcome.ConfusionMatrix,
		Predictions:     outcome.Predictions,
	})
	if err != nil {
		p.metrics.run(ratio, "record_failed", time.Since(started))
		logger.Error("training result not recorded", "error", err)
		return err
	}

	p.metrics.run(ratio, "success", time.Since(started))
	p.metrics.predictions(recorded.Updated, outcome.Dropped)

	logger.Info(
		"training completed",
		"result_id", recorded.Result.ID,
		"accuracy", outcome.Metrics.Accuracy,
		"f1_score", outcome.Metrics.F1Score,
		"auc_roc", outcome.Metrics.AUCROC,
		"predictions_updated", recorded.Updated,
	)

	return nil
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, ErrTrainerTimeout):
		return "timeout"
	case errors.Is(err, ErrTrainerReported):
		return "reported"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed"
	default:
		return "failed"
	}
}
