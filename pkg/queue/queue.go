// Package queue provides a Redis-backed task queue built on asynq.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/veritas/pkg/lifecycle"
)

// RedisOpt is the asynq Redis connection option.
type RedisOpt = asynq.RedisClientOpt

// System enqueues tasks and participates in lifecycle coordination.
type System interface {
	// Start registers startup (Redis ping) and shutdown (client close) hooks.
	Start(lc *lifecycle.Coordinator) error
	// Enqueue submits a task to the configured queue. Options are applied
	// after the queue selection and may override it.
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	// Name returns the queue tasks are submitted to.
	Name() string
}

type client struct {
	asynq  *asynq.Client
	redis  *redis.Client
	name   string
	logger *slog.Logger
}

// New creates a queue client from the given configuration.
// Connections are opened lazily; Start verifies Redis is reachable.
func New(cfg *Config, logger *slog.Logger) System {
	opt := cfg.RedisOpt()
	return &client{
		asynq: asynq.NewClient(opt),
		redis: redis.NewClient(&redis.Options{
			Addr:     opt.Addr,
			Password: opt.Password,
			DB:       opt.DB,
		}),
		name:   cfg.Name,
		logger: logger.With("system", "queue"),
	}
}

func (c *client) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting queue client", "queue", c.name)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), 5*time.Second)
		defer cancel()

		if err := c.redis.Ping(ctx).Err(); err != nil {
			c.logger.Error("redis ping failed", "error", err)
			lc.Fail("queue", err)
			return
		}

		c.logger.Info("queue connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.logger.Info("closing queue client")

		if err := c.asynq.Close(); err != nil {
			c.logger.Error("queue client close failed", "error", err)
		}
		if err := c.redis.Close(); err != nil {
			c.logger.Error("redis close failed", "error", err)
		}

		c.logger.Info("queue client closed")
	})

	return nil
}

func (c *client) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	all := append([]asynq.Option{asynq.Queue(c.name)}, opts...)

	info, err := c.asynq.EnqueueContext(ctx, task, all...)
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}

	c.logger.Info("task enqueued",
		"task_type", task.Type(),
		"task_id", info.ID,
		"queue", info.Queue,
	)
	return info, nil
}

func (c *client) Name() string {
	return c.name
}

// NewServer creates an asynq worker server consuming the configured queue.
func NewServer(cfg *Config, logger *slog.Logger) *asynq.Server {
	return asynq.NewServer(cfg.RedisOpt(), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			cfg.Name: 1,
		},
		Logger:   newLogAdapter(logger.With("system", "worker")),
		LogLevel: asynq.InfoLevel,
	})
}
