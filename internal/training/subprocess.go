package training

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"
)

const stderrTail = 2048

// Subprocess is a Backend that runs the trainer as an external program.
// The split ratio is passed as the final positional argument.
type Subprocess struct {
	command string
	args    []string
	workDir string
	env     []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewSubprocess creates a Subprocess backend from cfg.
func NewSubprocess(cfg *Config, logger *slog.Logger) *Subprocess {
	env := make([]string, 0, len(cfg.Env))
	for k, v := range cfg.Env {
		env = append(env, k+"="+v)
	}
	slices.Sort(env)

	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Subprocess{
		command: cfg.Command,
		args:    slices.Clone(cfg.Args),
		workDir: cfg.WorkDir,
		env:     env,
		timeout: timeout,
		logger:  logger.With("system", "training.subprocess"),
	}
}

// Train runs the trainer for splitRatio and parses its stdout.
func (s *Subprocess) Train(ctx context.Context, splitRatio int) (*Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(slices.Clone(s.args), strconv.Itoa(splitRatio))

	cmd := exec.CommandContext(ctx, s.command, args...)
	cmd.Dir = s.workDir
	cmd.Env = append(os.Environ(), s.env...)
	cmd.WaitDelay = 10 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.logger.Info("trainer starting", "command", s.command, "args", args, "timeout", s.timeout)
	started := time.Now()

	err := cmd.Run()
	elapsed := time.Since(started)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrTrainerTimeout, elapsed.Round(time.Second))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrTrainerFailed, err, tail(stderr.String(), stderrTail))
	}

	s.logger.Info("trainer finished", "split_ratio", splitRatio, "duration", elapsed)

	return ParseOutput(stdout.String())
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
