package api

import (
	"fmt"

	"github.com/JaimeStill/veritas/internal/datasets"
	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/internal/results"
	"github.com/JaimeStill/veritas/internal/training"
	"github.com/JaimeStill/veritas/pkg/repository"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Datasets datasets.System
	Images   images.System
	Results  results.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	imagesSystem := images.New(db, runtime.Logger, runtime.Pagination)
	resultsSystem := results.New(db, imagesSystem, runtime.Logger, runtime.Pagination)

	datasetMetrics, err := datasets.NewMetrics(runtime.Metrics)
	if err != nil {
		return nil, fmt.Errorf("dataset metrics: %w", err)
	}

	datasetsSystem := datasets.New(&datasets.Runtime{
		Store:   datasets.NewStore(db, runtime.Logger),
		Storage: runtime.Storage,
		Locker:  repository.NewAdvisoryLocker(db, runtime.Logger),
		Dispatcher: training.NewDispatcher(
			runtime.Queue,
			runtime.Training.Timeout,
			runtime.Training.MaxRetry,
			runtime.Logger,
		),
		Metrics:    datasetMetrics,
		Logger:     runtime.Logger,
		ScratchDir: runtime.ScratchDir,
	})

	return &Domain{
		Datasets: datasetsSystem,
		Images:   imagesSystem,
		Results:  resultsSystem,
	}, nil
}
