// Package training dispatches and executes training runs. The API enqueues
// a run per ingested split ratio; the worker invokes the trainer backend and
// records its outcome.
package training

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/JaimeStill/veritas/internal/images"
)

// TaskTypeRun is the asynq task type of a training run.
const TaskTypeRun = "training:run"

// DefaultTimeout bounds a single trainer invocation.
const DefaultTimeout = 3 * time.Hour

// Payload is the body of a training run task.
type Payload struct {
	SplitRatio int `json:"split_ratio"`
}

// NewTask builds a training run task for splitRatio.
func NewTask(splitRatio int) (*asynq.Task, error) {
	b, err := json.Marshal(Payload{SplitRatio: splitRatio})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRun, b), nil
}

// ParsePayload decodes and validates the payload of t.
func ParsePayload(t *asynq.Task) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !images.ValidSplitRatio(p.SplitRatio) {
		return p, fmt.Errorf("%w: split ratio %d", ErrInvalidPayload, p.SplitRatio)
	}
	return p, nil
}
