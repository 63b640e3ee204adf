// Package cms declares the tool catalog for the headless CMS platform.
package cms

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/decocms/mcps/internal/binder"
	"github.com/decocms/mcps/internal/config"
	"github.com/decocms/mcps/internal/platform"
	"github.com/decocms/mcps/internal/reqschema"
	"github.com/decocms/mcps/internal/rest"
)

// Catalog returns the CMS operations backed by cfg.
func Catalog(logger hclog.Logger, cfg config.PlatformConfig) ([]binder.Operation, error) {
	client, err := rest.NewClient(logger.Named("cms"), cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	auth := platform.AuthHeaders(cfg)

	collection := reqschema.Field{Name: "collection", Type: platform.String("Collection slug, e.g. 'posts'")}
	documentID := reqschema.Field{Name: "documentId", Type: platform.String("Document ID")}

	return []binder.Operation{
		{
			ID:          "cms_list_collections",
			Description: "List the content collections defined in the CMS.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/api/collections"}),
		},
		{
			ID:          "cms_list_documents",
			Description: "List documents in a collection. Supports paging and filtering by publication status.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Path: reqschema.Object(collection),
				Query: reqschema.Optional(reqschema.Object(
					reqschema.Field{Name: "page", Type: platform.Integer("Page number, 1-based")},
					reqschema.Field{Name: "size", Type: platform.Integer("Page size"), Optional: true},
					reqschema.Field{Name: "status", Type: platform.Enum("Publication status", "draft", "published")},
				)),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/api/collections/{collection}/documents"}),
		},
		{
			ID:          "cms_get_document",
			Description: "Fetch a single document by ID, including its content fields.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Path:    reqschema.Object(collection, documentID),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/api/collections/{collection}/documents/{documentId}"}),
		},
		{
			ID:          "cms_create_document",
			Description: "Create a new draft document in a collection.",
			Shape: reqschema.Shape{
				Path: reqschema.Object(collection),
				Body: reqschema.Object(
					reqschema.Field{Name: "title", Type: platform.String("Document title")},
					reqschema.Field{Name: "slug", Type: platform.String("URL slug; generated from the title when omitted"), Optional: true},
					reqschema.Field{Name: "content", Type: platform.ObjectType("Content fields keyed by field name"), Optional: true},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodPost, Path: "/api/collections/{collection}/documents"}),
		},
		{
			ID:          "cms_update_document",
			Description: "Update fields on an existing document. Only the provided fields are changed.",
			Shape: reqschema.Shape{
				Path: reqschema.Object(collection, documentID),
				Body: reqschema.Optional(reqschema.Object(
					reqschema.Field{Name: "title", Type: platform.String("Document title")},
					reqschema.Field{Name: "slug", Type: platform.String("URL slug")},
					reqschema.Field{Name: "content", Type: platform.ObjectType("Content fields keyed by field name")},
				)),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodPatch, Path: "/api/collections/{collection}/documents/{documentId}"}),
		},
		{
			ID:          "cms_publish_document",
			Description: "Publish a draft document, making it visible on the live site.",
			Shape: reqschema.Shape{
				Path:    reqschema.Object(collection, documentID),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodPost, Path: "/api/collections/{collection}/documents/{documentId}/publish"}),
		},
		{
			ID:          "cms_unpublish_document",
			Description: "Unpublish a document, reverting it to draft status.",
			Shape: reqschema.Shape{
				Path:    reqschema.Object(collection, documentID),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodPost, Path: "/api/collections/{collection}/documents/{documentId}/unpublish"}),
		},
		{
			ID:          "cms_delete_document",
			Description: "Permanently delete a document. This cannot be undone.",
			Destructive: true,
			Shape: reqschema.Shape{
				Path:    reqschema.Object(collection, documentID),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodDelete, Path: "/api/collections/{collection}/documents/{documentId}"}),
		},
	}, nil
}
