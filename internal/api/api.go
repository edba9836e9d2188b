// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/infrastructure"
	"github.com/JaimeStill/veritas/pkg/middleware"
	"github.com/JaimeStill/veritas/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	httpMetrics *middleware.HTTPMetrics,
) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	patterns, err := registerRoutes(mux, domain, cfg)
	if err != nil {
		return nil, err
	}
	runtime.Logger.Debug("api routes registered", "routes", patterns)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(httpMetrics.Instrument(cfg.API.BasePath))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	return m, nil
}
