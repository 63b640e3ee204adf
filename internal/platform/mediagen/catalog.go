// Package mediagen declares the tool catalog for the media-generation
// platform.
package mediagen

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/decocms/mcps/internal/binder"
	"github.com/decocms/mcps/internal/config"
	"github.com/decocms/mcps/internal/platform"
	"github.com/decocms/mcps/internal/reqschema"
	"github.com/decocms/mcps/internal/rest"
)

// Catalog returns the media-generation operations backed by cfg.
func Catalog(logger hclog.Logger, cfg config.PlatformConfig) ([]binder.Operation, error) {
	client, err := rest.NewClient(logger.Named("mediagen"), cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	auth := platform.AuthHeaders(cfg)

	return []binder.Operation{
		{
			ID:          "mediagen_generate_image",
			Description: "Generate an image from a text prompt. Returns the generation record including its ID and status.",
			Shape: reqschema.Shape{
				Body: reqschema.Object(
					reqschema.Field{Name: "prompt", Type: platform.String("Text prompt describing the desired image")},
					reqschema.Field{Name: "model", Type: platform.String("Model identifier"), HasDefault: true, Optional: true},
					reqschema.Field{Name: "size", Type: platform.Enum("Output resolution", "512x512", "1024x1024", "1792x1024"), Optional: true},
					reqschema.Field{Name: "count", Type: platform.Integer("Number of images to generate"), Optional: true},
					reqschema.Field{Name: "seed", Type: platform.Integer("Deterministic seed"), Optional: true},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodPost, Path: "/v1/generations"}),
		},
		{
			ID:          "mediagen_get_generation",
			Description: "Fetch a single generation by ID, including its status and output asset URLs.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Path: reqschema.Object(
					reqschema.Field{Name: "generationId", Type: platform.String("Generation ID")},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/v1/generations/{generationId}"}),
		},
		{
			ID:          "mediagen_list_generations",
			Description: "List generations for the authenticated account, most recent first.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Query: reqschema.Optional(reqschema.Object(
					reqschema.Field{Name: "page", Type: platform.Integer("Page number, 1-based")},
					reqschema.Field{Name: "size", Type: platform.Integer("Page size"), Optional: true},
					reqschema.Field{Name: "status", Type: platform.Enum("Filter by status", "pending", "running", "succeeded", "failed")},
				)),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/v1/generations"}),
		},
		{
			ID:          "mediagen_delete_generation",
			Description: "Delete a generation and its output assets. This cannot be undone.",
			Destructive: true,
			Shape: reqschema.Shape{
				Path: reqschema.Object(
					reqschema.Field{Name: "generationId", Type: platform.String("Generation ID")},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodDelete, Path: "/v1/generations/{generationId}"}),
		},
		{
			ID:          "mediagen_list_models",
			Description: "List the models available to the authenticated account.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/v1/models"}),
		},
	}, nil
}
