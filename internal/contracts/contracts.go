// Package contracts declares the interfaces the API layer depends on,
// decoupling it from the daemon's concrete registry and health tracker.
package contracts

import (
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/decocms/mcps/internal/domain"
)

// HealthMonitor provides access to the health status of platforms.
type HealthMonitor interface {
	// Status returns the health status for a single tracked platform.
	Status(name string) (domain.PlatformHealth, error)

	// List returns a copy of all known platform health records.
	List() []domain.PlatformHealth

	// Update records a health check for a tracked platform.
	Update(name string, status domain.HealthStatus, latency *time.Duration) error
}

// CatalogAccessor provides access to the bound tools of each platform.
type CatalogAccessor interface {
	// Add registers a platform's bound tools.
	Add(platform string, tools []BoundTool)

	// Platforms returns all known platform names.
	Platforms() []string

	// Tools returns the tool definitions for the given platform.
	// It returns a boolean to indicate whether the platform was found.
	Tools(platform string) ([]mcp.Tool, bool)

	// Handler returns the call handler for the given platform tool.
	// It returns a boolean to indicate whether the tool was found.
	Handler(platform string, tool string) (server.ToolHandlerFunc, bool)
}

// BoundTool pairs a tool definition with its call handler.
type BoundTool struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}
