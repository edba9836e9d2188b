package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/datasets"
	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/internal/results"
	"github.com/JaimeStill/veritas/pkg/openapi"
	"github.com/JaimeStill/veritas/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) ([]string, error) {
	groups := []routes.Group{
		domain.Datasets.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Images.Handler().Routes(),
		domain.Results.Handler().Routes(),
	}

	doc, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	patterns := routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(doc))

	return append(patterns, "GET /openapi.json"), nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)

	if err := routes.Describe(spec, groups...); err != nil {
		return nil, err
	}

	spec.Components.AddSchemas(datasets.Spec.Schemas())
	spec.Components.AddSchemas(images.Spec.Schemas())
	spec.Components.AddSchemas(results.Spec.Schemas())

	return openapi.MarshalJSON(spec)
}
