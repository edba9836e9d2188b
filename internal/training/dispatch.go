package training

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/JaimeStill/veritas/pkg/queue"
)

// recordGrace is added to the trainer timeout so the worker can persist
// the outcome before asynq cancels the task.
const recordGrace = 5 * time.Minute

// Dispatcher enqueues training runs.
type Dispatcher struct {
	queue    queue.System
	maxRetry int
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher submitting to q. timeout is the trainer
// timeout; maxRetry is passed through to asynq.
func NewDispatcher(q queue.System, timeout time.Duration, maxRetry int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		queue:    q,
		maxRetry: maxRetry,
		timeout:  timeout,
		logger:   logger.With("system", "training.dispatch"),
	}
}

// Dispatch enqueues one training run for splitRatio and returns its task ID.
func (d *Dispatcher) Dispatch(ctx context.Context, splitRatio int) (string, error) {
	task, err := NewTask(splitRatio)
	if err != nil {
		return "", err
	}

	info, err := d.queue.Enqueue(
		ctx, task,
		asynq.TaskID(uuid.NewString()),
		asynq.MaxRetry(d.maxRetry),
		asynq.Timeout(d.timeout+recordGrace),
	)
	if err != nil {
		return "", err
	}

	d.logger.Info("training dispatched", "split_ratio", splitRatio, "task_id", info.ID)
	return info.ID, nil
}
