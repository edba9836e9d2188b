package config

import (
	"fmt"

	"github.com/JaimeStill/veritas/pkg/formatting"
	"github.com/JaimeStill/veritas/pkg/middleware"
	"github.com/JaimeStill/veritas/pkg/openapi"
	"github.com/JaimeStill/veritas/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "VERITAS_CORS_ENABLED",
	Origins:          "VERITAS_CORS_ORIGINS",
	AllowedMethods:   "VERITAS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "VERITAS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "VERITAS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "VERITAS_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "VERITAS_OPENAPI_TITLE",
	Description: "VERITAS_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "VERITAS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "VERITAS_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	if err := c.validate(); err != nil {
		return err
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "2GB"
	}
}

func (c *APIConfig) loadEnv() {
	envString(&c.BasePath, "VERITAS_API_BASE_PATH")
	envString(&c.MaxUploadSize, "VERITAS_API_MAX_UPLOAD_SIZE")
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
