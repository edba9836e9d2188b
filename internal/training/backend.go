package training

import (
	"context"

	"github.com/JaimeStill/veritas/internal/results"
)

// Outcome is a successful training run.
type Outcome struct {
	Metrics         results.Metrics
	ConfusionMatrix *results.ConfusionMatrix
	Predictions     []results.Prediction
	// Dropped counts prediction entries that were incomplete or out of range.
	Dropped int
}

// Backend trains a model on the dataset stored for splitRatio.
type Backend interface {
	Train(ctx context.Context, splitRatio int) (*Outcome, error)
}
