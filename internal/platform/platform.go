// Package platform provides the shared building blocks for the per-platform
// operation catalogs: type shorthands for request shapes, the standard auth
// header part, and the adapter that binds a REST endpoint to a catalog entry.
package platform

import (
	"context"

	"github.com/decocms/mcps/internal/binder"
	"github.com/decocms/mcps/internal/config"
	"github.com/decocms/mcps/internal/invoke"
	"github.com/decocms/mcps/internal/reqschema"
	"github.com/decocms/mcps/internal/rest"
)

// Target wraps one REST endpoint as the operation's invocation function.
// Credential headers are resolved from the environment on every call.
func Target(client *rest.Client, cfg config.PlatformConfig, ep rest.Endpoint) binder.InvokeFunc {
	return func(ctx context.Context, call reqschema.StructuredCall) invoke.Result {
		headers, err := cfg.ResolveHeaders()
		if err != nil {
			return invoke.Result{Err: err}
		}
		return client.Call(ctx, ep, call, headers)
	}
}

// AuthHeaders declares the header part carried by authenticated operations.
// Header fields are populated by the platform config, never by callers, and
// are invisible in the flattened tool schema.
func AuthHeaders(cfg config.PlatformConfig) reqschema.Part {
	name := cfg.AuthHeader
	if name == "" {
		name = "Authorization"
	}
	return reqschema.Object(reqschema.Field{Name: name, Type: String("")})
}

// String returns a string type descriptor.
func String(desc string) reqschema.Type {
	return reqschema.Type{Name: "string", Description: desc}
}

// Number returns a number type descriptor.
func Number(desc string) reqschema.Type {
	return reqschema.Type{Name: "number", Description: desc}
}

// Integer returns an integer type descriptor.
func Integer(desc string) reqschema.Type {
	return reqschema.Type{Name: "integer", Description: desc}
}

// Boolean returns a boolean type descriptor.
func Boolean(desc string) reqschema.Type {
	return reqschema.Type{Name: "boolean", Description: desc}
}

// Array returns an array type descriptor with the given item type.
func Array(items reqschema.Type, desc string) reqschema.Type {
	return reqschema.Type{Name: "array", Items: &items, Description: desc}
}

// ObjectType returns an opaque object type descriptor.
func ObjectType(desc string) reqschema.Type {
	return reqschema.Type{Name: "object", Description: desc}
}

// Enum returns a string type restricted to a fixed set of values.
func Enum(desc string, values ...string) reqschema.Type {
	enum := make([]any, 0, len(values))
	for _, v := range values {
		enum = append(enum, v)
	}
	return reqschema.Type{Name: "string", Enum: enum, Description: desc}
}
