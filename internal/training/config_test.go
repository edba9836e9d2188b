package training_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/veritas/internal/training"
)

func TestConfigDefaults(t *testing.T) {
	var cfg training.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Command != "python3" {
		t.Errorf("command = %q", cfg.Command)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "python/train.py" {
		t.Errorf("args = %v", cfg.Args)
	}
	if cfg.TimeoutDuration() != training.DefaultTimeout {
		t.Errorf("timeout = %s, want %s", cfg.TimeoutDuration(), training.DefaultTimeout)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_TRAIN_CMD", "/opt/venv/bin/python")
	t.Setenv("TEST_TRAIN_ARGS", "-u train.py --epochs 5")
	t.Setenv("TEST_TRAIN_DIR", "/srv/trainer")
	t.Setenv("TEST_TRAIN_TIMEOUT", "90m")

	var cfg training.Config
	err := cfg.Finalize(&training.Env{
		Command: "TEST_TRAIN_CMD",
		Args:    "TEST_TRAIN_ARGS",
		WorkDir: "TEST_TRAIN_DIR",
		Timeout: "TEST_TRAIN_TIMEOUT",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Command != "/opt/venv/bin/python" || cfg.WorkDir != "/srv/trainer" {
		t.Errorf("got %+v", cfg)
	}
	if strings.Join(cfg.Args, "|") != "-u|train.py|--epochs|5" {
		t.Errorf("args = %v", cfg.Args)
	}
	if cfg.TimeoutDuration() != 90*time.Minute {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		wantErr string
	}{
		{"unparseable", "eventually", "invalid timeout"},
		{"negative", "-1m", "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := training.Config{Timeout: tt.timeout}
			err := cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := training.Config{
		Command: "python3",
		Args:    []string{"train.py"},
		Env:     map[string]string{"CUDA_VISIBLE_DEVICES": "0"},
	}
	cfg.Merge(&training.Config{
		Timeout: "1h",
		Env:     map[string]string{"PYTHONUNBUFFERED": "1"},
	})

	if cfg.Command != "python3" || cfg.Timeout != "1h" {
		t.Errorf("got %+v", cfg)
	}
	if len(cfg.Env) != 2 {
		t.Errorf("env = %v, want both keys", cfg.Env)
	}
}
