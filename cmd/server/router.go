package main

import (
	"net/http"

	"github.com/JaimeStill/veritas/internal/api"
	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/infrastructure"
	"github.com/JaimeStill/veritas/pkg/handlers"
	"github.com/JaimeStill/veritas/pkg/middleware"
	"github.com/JaimeStill/veritas/pkg/module"
)

const storagePrefix = "/storage"

func buildRouter(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Router, error) {
	httpMetrics, err := middleware.NewHTTPMetrics(infra.Metrics)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra, httpMetrics)
	if err != nil {
		return nil, err
	}

	router := module.NewRouter()
	router.Mount(apiModule)
	router.Mount(api.NewStorageModule(storagePrefix, infra.Storage, infra.Logger, httpMetrics))

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "not ready",
				"failures": infra.Lifecycle.Failures(),
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	router.Handle("GET /metrics", infra.Metrics.Handler())

	return router, nil
}
