package training

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config describes how the external trainer is invoked.
type Config struct {
	Command string            `toml:"command"`
	Args    []string          `toml:"args"`
	WorkDir string            `toml:"work_dir"`
	Env     map[string]string `toml:"env"`
	Timeout string            `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
// Args is read as a whitespace-separated list.
type Env struct {
	Command string
	Args    string
	WorkDir string
	Timeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Env entries are merged by key.
func (c *Config) Merge(overlay *Config) {
	if overlay.Command != "" {
		c.Command = overlay.Command
	}
	if len(overlay.Args) > 0 {
		c.Args = overlay.Args
	}
	if overlay.WorkDir != "" {
		c.WorkDir = overlay.WorkDir
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if len(overlay.Env) > 0 {
		if c.Env == nil {
			c.Env = make(map[string]string, len(overlay.Env))
		}
		for k, v := range overlay.Env {
			c.Env[k] = v
		}
	}
}

func (c *Config) loadDefaults() {
	if c.Command == "" {
		c.Command = "python3"
	}
	if c.Args == nil {
		c.Args = []string{"python/train.py"}
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout.String()
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Command != "" {
		if v := os.Getenv(env.Command); v != "" {
			c.Command = v
		}
	}
	if env.Args != "" {
		if v := os.Getenv(env.Args); v != "" {
			c.Args = strings.Fields(v)
		}
	}
	if env.WorkDir != "" {
		if v := os.Getenv(env.WorkDir); v != "" {
			c.WorkDir = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Command == "" {
		return fmt.Errorf("command required")
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
