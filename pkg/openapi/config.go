package openapi

import "os"

// Config holds the document metadata published with the generated spec.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Veritas API"
	}
	if c.Description == "" {
		c.Description = "Labeled image dataset ingestion, training dispatch, and classifier results."
	}
	if env != nil {
		if v := os.Getenv(env.Title); env.Title != "" && v != "" {
			c.Title = v
		}
		if v := os.Getenv(env.Description); env.Description != "" && v != "" {
			c.Description = v
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
