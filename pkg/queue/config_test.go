package queue_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/veritas/pkg/queue"
)

func TestFinalizeDefaults(t *testing.T) {
	var cfg queue.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Addr != "localhost:6379" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.Name != "training" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Concurrency != 1 {
		t.Errorf("concurrency = %d, want 1", cfg.Concurrency)
	}
	if cfg.MaxRetry != 0 {
		t.Errorf("max retry = %d, want 0", cfg.MaxRetry)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_Q_ADDR", "redis:6380")
	t.Setenv("TEST_Q_DB", "2")
	t.Setenv("TEST_Q_CONCURRENCY", "4")
	t.Setenv("TEST_Q_RETRY", "3")

	var cfg queue.Config
	err := cfg.Finalize(&queue.Env{
		Addr:        "TEST_Q_ADDR",
		DB:          "TEST_Q_DB",
		Concurrency: "TEST_Q_CONCURRENCY",
		MaxRetry:    "TEST_Q_RETRY",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Addr != "redis:6380" || cfg.DB != 2 || cfg.Concurrency != 4 || cfg.MaxRetry != 3 {
		t.Errorf("got %+v", cfg)
	}

	opt := cfg.RedisOpt()
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Errorf("redis opt = %+v", opt)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     queue.Config
		wantErr string
	}{
		{"negative db", queue.Config{DB: -1}, "invalid db"},
		{"negative concurrency", queue.Config{Concurrency: -2}, "concurrency"},
		{"negative retry", queue.Config{MaxRetry: -1}, "max_retry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := queue.Config{Addr: "localhost:6379", Name: "training", Concurrency: 1}
	cfg.Merge(&queue.Config{Addr: "redis:6379", MaxRetry: 2})

	if cfg.Addr != "redis:6379" || cfg.MaxRetry != 2 {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	if cfg.Name != "training" || cfg.Concurrency != 1 {
		t.Errorf("base overwritten: %+v", cfg)
	}
}
