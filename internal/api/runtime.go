package api

import (
	"time"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/infrastructure"
	"github.com/JaimeStill/veritas/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Training   TrainingRuntime
	ScratchDir string
}

// TrainingRuntime carries the settings the API needs to dispatch training runs.
type TrainingRuntime struct {
	Timeout  time.Duration
	MaxRetry int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Queue:     infra.Queue,
			Metrics:   infra.Metrics,
		},
		Pagination: cfg.API.Pagination,
		Training: TrainingRuntime{
			Timeout:  cfg.Training.TimeoutDuration(),
			MaxRetry: cfg.Queue.MaxRetry,
		},
		ScratchDir: cfg.ScratchDir,
	}
}
