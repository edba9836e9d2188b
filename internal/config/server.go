package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// ServerEnv names the environment variables that override ServerConfig.
type ServerEnv struct {
	Host              string
	Port              string
	ReadHeaderTimeout string
	ReadTimeout       string
	WriteTimeout      string
	ShutdownTimeout   string
}

var serverEnv = &ServerEnv{
	Host:              "VERITAS_SERVER_HOST",
	Port:              "VERITAS_SERVER_PORT",
	ReadHeaderTimeout: "VERITAS_SERVER_READ_HEADER_TIMEOUT",
	ReadTimeout:       "VERITAS_SERVER_READ_TIMEOUT",
	WriteTimeout:      "VERITAS_SERVER_WRITE_TIMEOUT",
	ShutdownTimeout:   "VERITAS_SERVER_SHUTDOWN_TIMEOUT",
}

// ServerConfig holds HTTP listener parameters. ReadTimeout bounds the whole
// request including the archive upload, so it defaults generously.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return parseDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDuration(c.ReadTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return parseDuration(c.WriteTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize(env *ServerEnv) error {
	c.loadDefaults()
	if env != nil {
		envString(&c.Host, env.Host)
		envInt(&c.Port, env.Port)
		envString(&c.ReadHeaderTimeout, env.ReadHeaderTimeout)
		envString(&c.ReadTimeout, env.ReadTimeout)
		envString(&c.WriteTimeout, env.WriteTimeout)
		envString(&c.ShutdownTimeout, env.ShutdownTimeout)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	mergeString(&c.ReadHeaderTimeout, overlay.ReadHeaderTimeout)
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadHeaderTimeout == "" {
		c.ReadHeaderTimeout = "10s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "30m"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "30m"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	durations := []struct{ name, value string }{
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, d := range durations {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	return nil
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
