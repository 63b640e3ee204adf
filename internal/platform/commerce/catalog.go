// Package commerce declares the tool catalog for the e-commerce platform.
package commerce

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/decocms/mcps/internal/binder"
	"github.com/decocms/mcps/internal/config"
	"github.com/decocms/mcps/internal/platform"
	"github.com/decocms/mcps/internal/reqschema"
	"github.com/decocms/mcps/internal/rest"
)

// Catalog returns the e-commerce operations backed by cfg.
func Catalog(logger hclog.Logger, cfg config.PlatformConfig) ([]binder.Operation, error) {
	client, err := rest.NewClient(logger.Named("commerce"), cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	auth := platform.AuthHeaders(cfg)

	return []binder.Operation{
		{
			ID:          "commerce_search_products",
			Description: "Search the product catalog with free-text and facet filters.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Query: reqschema.Optional(reqschema.Object(
					reqschema.Field{Name: "q", Type: platform.String("Free-text search query")},
					reqschema.Field{Name: "category", Type: platform.String("Category path filter, e.g. 'electronics/audio'")},
					reqschema.Field{Name: "page", Type: platform.Integer("Page number, 1-based"), HasDefault: true, Optional: true},
					reqschema.Field{Name: "size", Type: platform.Integer("Page size"), Optional: true},
					reqschema.Field{Name: "sort", Type: platform.Enum("Sort order", "relevance", "price_asc", "price_desc", "newest")},
				)),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/catalog/products"}),
		},
		{
			ID:          "commerce_get_product",
			Description: "Fetch a single product by ID, including SKUs, images and specifications.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Path: reqschema.Object(
					reqschema.Field{Name: "productId", Type: platform.String("Product ID")},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/catalog/products/{productId}"}),
		},
		{
			ID:          "commerce_get_category_tree",
			Description: "Fetch the category tree down to the given depth.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Path: reqschema.Object(
					reqschema.Field{Name: "depth", Type: platform.Integer("Maximum tree depth")},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/catalog/categories/tree/{depth}"}),
		},
		{
			ID:          "commerce_list_orders",
			Description: "List orders for the account, filtered by status and creation date.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Query: reqschema.Optional(reqschema.Object(
					reqschema.Field{Name: "page", Type: platform.Integer("Page number, 1-based")},
					reqschema.Field{Name: "status", Type: platform.Enum("Order status", "created", "payment_pending", "invoiced", "shipped", "canceled")},
					reqschema.Field{Name: "from", Type: reqschema.Type{Name: "string", Format: "date-time", Description: "Creation date lower bound"}},
					reqschema.Field{Name: "to", Type: reqschema.Type{Name: "string", Format: "date-time", Description: "Creation date upper bound"}},
				)),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/orders"}),
		},
		{
			ID:          "commerce_get_order",
			Description: "Fetch a single order by ID, including items, totals and shipping data.",
			ReadOnly:    true,
			Shape: reqschema.Shape{
				Path: reqschema.Object(
					reqschema.Field{Name: "orderId", Type: platform.String("Order ID")},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodGet, Path: "/orders/{orderId}"}),
		},
		{
			ID:          "commerce_simulate_cart",
			Description: "Run a cart simulation: given a list of items, returns prices, availability and shipping options without placing an order.",
			Shape: reqschema.Shape{
				// The simulation payload is the item list itself, not a
				// named field set, so it stays an opaque array body.
				Body: reqschema.Opaque(platform.Array(
					platform.ObjectType("Cart item with sku, quantity and seller"),
					"Items to simulate",
				)),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodPost, Path: "/checkout/simulation"}),
		},
		{
			ID:          "commerce_update_sku_price",
			Description: "Update the base and list price of a SKU.",
			Shape: reqschema.Shape{
				Path: reqschema.Object(
					reqschema.Field{Name: "skuId", Type: platform.String("SKU ID")},
				),
				Body: reqschema.Object(
					reqschema.Field{Name: "price", Type: platform.Number("Base selling price")},
					reqschema.Field{Name: "listPrice", Type: platform.Number("List (compare-at) price"), Optional: true},
				),
				Headers: auth,
			},
			Invoke: platform.Target(client, cfg, rest.Endpoint{Method: http.MethodPut, Path: "/pricing/skus/{skuId}"}),
		},
	}, nil
}
