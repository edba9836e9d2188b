package queue

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds Redis connection and worker parameters for the task queue.
type Config struct {
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	Name        string `toml:"name"`
	Concurrency int    `toml:"concurrency"`
	MaxRetry    int    `toml:"max_retry"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Addr        string
	Password    string
	DB          string
	Name        string
	Concurrency string
	MaxRetry    string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.MaxRetry != 0 {
		c.MaxRetry = overlay.MaxRetry
	}
}

func (c *Config) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Name == "" {
		c.Name = "training"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 1
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DB = n
			}
		}
	}
	if env.Name != "" {
		if v := os.Getenv(env.Name); v != "" {
			c.Name = v
		}
	}
	if env.Concurrency != "" {
		if v := os.Getenv(env.Concurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Concurrency = n
			}
		}
	}
	if env.MaxRetry != "" {
		if v := os.Getenv(env.MaxRetry); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxRetry = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr required")
	}
	if c.DB < 0 {
		return fmt.Errorf("invalid db: %d", c.DB)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.MaxRetry < 0 {
		return fmt.Errorf("max_retry cannot be negative")
	}
	return nil
}

// RedisOpt returns the asynq connection option for this config.
func (c *Config) RedisOpt() RedisOpt {
	return RedisOpt{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}
