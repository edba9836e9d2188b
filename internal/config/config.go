package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/veritas/internal/training"
	"github.com/JaimeStill/veritas/pkg/database"
	"github.com/JaimeStill/veritas/pkg/queue"
	"github.com/JaimeStill/veritas/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVeritasEnv             = "VERITAS_ENV"
	EnvVeritasShutdownTimeout = "VERITAS_SHUTDOWN_TIMEOUT"
	EnvVeritasVersion         = "VERITAS_VERSION"
	EnvVeritasScratchDir      = "VERITAS_SCRATCH_DIR"
)

var databaseEnv = &database.Env{
	Host:            "VERITAS_DB_HOST",
	Port:            "VERITAS_DB_PORT",
	Name:            "VERITAS_DB_NAME",
	User:            "VERITAS_DB_USER",
	Password:        "VERITAS_DB_PASSWORD",
	SSLMode:         "VERITAS_DB_SSL_MODE",
	MaxOpenConns:    "VERITAS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VERITAS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VERITAS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VERITAS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "VERITAS_STORAGE_PROVIDER",
	Root:             "VERITAS_STORAGE_ROOT",
	ContainerName:    "VERITAS_STORAGE_CONTAINER_NAME",
	ConnectionString: "VERITAS_STORAGE_CONNECTION_STRING",
}

var queueEnv = &queue.Env{
	Addr:        "VERITAS_QUEUE_ADDR",
	Password:    "VERITAS_QUEUE_PASSWORD",
	DB:          "VERITAS_QUEUE_DB",
	Name:        "VERITAS_QUEUE_NAME",
	Concurrency: "VERITAS_QUEUE_CONCURRENCY",
	MaxRetry:    "VERITAS_QUEUE_MAX_RETRY",
}

var trainingEnv = &training.Env{
	Command: "VERITAS_TRAINING_COMMAND",
	Args:    "VERITAS_TRAINING_ARGS",
	WorkDir: "VERITAS_TRAINING_WORK_DIR",
	Timeout: "VERITAS_TRAINING_TIMEOUT",
}

// Config is the root configuration for the Veritas service and worker.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Queue           queue.Config    `toml:"queue"`
	Training        training.Config `toml:"training"`
	API             APIConfig       `toml:"api"`
	ScratchDir      string          `toml:"scratch_dir"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the VERITAS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVeritasEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	mergeString(&c.ScratchDir, overlay.ScratchDir)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Queue.Merge(&overlay.Queue)
	c.Training.Merge(&overlay.Training)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(serverEnv); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Queue.Finalize(queueEnv); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := c.Training.Finalize(trainingEnv); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	envString(&c.ShutdownTimeout, EnvVeritasShutdownTimeout)
	envString(&c.Version, EnvVeritasVersion)
	envString(&c.ScratchDir, EnvVeritasScratchDir)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVeritasEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
