package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/decocms/mcps/internal/contracts"
)

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(
	router huma.API,
	healthTracker contracts.HealthMonitor,
	catalogs contracts.CatalogAccessor,
) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if healthTracker == nil || reflect.ValueOf(healthTracker).IsNil() {
		return "", fmt.Errorf("health tracker cannot be nil")
	}
	if catalogs == nil || reflect.ValueOf(catalogs).IsNil() {
		return "", fmt.Errorf("catalog accessor cannot be nil")
	}

	apiPathPrefix, err := url.JoinPath("/api", "v1")
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterHealthRoutes(versionedGroup, healthTracker, "/health")
	RegisterPlatformRoutes(versionedGroup, catalogs, "/platforms")

	return apiPathPrefix, nil
}
