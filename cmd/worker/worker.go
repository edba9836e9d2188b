package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/internal/infrastructure"
	"github.com/JaimeStill/veritas/internal/results"
	"github.com/JaimeStill/veritas/internal/training"
	"github.com/JaimeStill/veritas/pkg/handlers"
	"github.com/JaimeStill/veritas/pkg/queue"
)

// Worker consumes training run tasks.
type Worker struct {
	infra   *infrastructure.Infrastructure
	server  *asynq.Server
	mux     *asynq.ServeMux
	metrics *http.Server
}

func NewWorker(cfg *config.Config, metricsAddr string) (*Worker, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	db := infra.Database.Connection()
	imagesSystem := images.New(db, infra.Logger, cfg.API.Pagination)
	resultsSystem := results.New(db, imagesSystem, infra.Logger, cfg.API.Pagination)

	trainingMetrics, err := training.NewMetrics(infra.Metrics)
	if err != nil {
		return nil, fmt.Errorf("training metrics: %w", err)
	}

	processor := training.NewProcessor(
		training.NewSubprocess(&cfg.Training, infra.Logger),
		resultsSystem,
		trainingMetrics,
		infra.Logger,
	)

	mux := asynq.NewServeMux()
	processor.Register(mux)

	infra.Logger.Info(
		"worker initialized",
		"queue", cfg.Queue.Name,
		"concurrency", cfg.Queue.Concurrency,
		"trainer", cfg.Training.Command,
		"version", cfg.Version,
	)

	return &Worker{
		infra:   infra,
		server:  queue.NewServer(&cfg.Queue, infra.Logger),
		mux:     mux,
		metrics: newMetricsServer(metricsAddr, infra),
	}, nil
}

func newMetricsServer(addr string, infra *infrastructure.Infrastructure) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", infra.Metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		lc := infra.Lifecycle
		if !lc.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "not ready",
				"failures": lc.Failures(),
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (w *Worker) Start() error {
	logger := w.infra.Logger

	if err := w.infra.Start(); err != nil {
		return err
	}

	go func() {
		logger.Info("metrics listening", "addr", w.metrics.Addr)
		if err := w.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("task server start failed: %w", err)
	}

	lc := w.infra.Lifecycle
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		logger.Info("stopping task server")
		w.server.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.metrics.Shutdown(ctx); err != nil {
			logger.Error("metrics shutdown error", "error", err)
		}
	})

	go func() {
		lc.WaitForStartup()
		if failures := lc.Failures(); len(failures) > 0 {
			logger.Warn("worker degraded", "failures", failures)
			return
		}
		logger.Info("all subsystems ready")
	}()

	return nil
}

func (w *Worker) Shutdown(timeout time.Duration) error {
	w.infra.Logger.Info("initiating shutdown")
	return w.infra.Lifecycle.Shutdown(timeout)
}
