package daemon

import (
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/decocms/mcps/internal/contracts"
)

var _ contracts.CatalogAccessor = (*CatalogRegistry)(nil)

// CatalogRegistry holds the bound tools of every platform.
// It is safe for concurrent use by multiple goroutines.
type CatalogRegistry struct {
	mu       sync.RWMutex
	catalogs map[string][]contracts.BoundTool
}

// NewCatalogRegistry creates an empty, concurrency-safe CatalogRegistry.
func NewCatalogRegistry() *CatalogRegistry {
	return &CatalogRegistry{
		catalogs: make(map[string][]contracts.BoundTool),
	}
}

// Add registers a platform's bound tools.
// This method is safe for concurrent use.
func (r *CatalogRegistry) Add(platform string, tools []contracts.BoundTool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[platform] = tools
}

// Platforms returns all known platform names.
// This method is safe for concurrent use.
func (r *CatalogRegistry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.catalogs))
	for name := range r.catalogs {
		names = append(names, name)
	}
	return names
}

// Tools returns the tool definitions for the given platform.
// It returns a boolean to indicate whether the platform was found.
// This method is safe for concurrent use.
func (r *CatalogRegistry) Tools(platform string) ([]mcp.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bound, ok := r.catalogs[platform]
	if !ok {
		return nil, false
	}
	tools := make([]mcp.Tool, 0, len(bound))
	for _, bt := range bound {
		tools = append(tools, bt.Tool)
	}
	return tools, true
}

// Handler returns the call handler for the given platform tool.
// It returns a boolean to indicate whether the tool was found.
// This method is safe for concurrent use.
func (r *CatalogRegistry) Handler(platform string, tool string) (server.ToolHandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bt := range r.catalogs[platform] {
		if bt.Tool.Name == tool {
			return bt.Handler, true
		}
	}
	return nil, false
}
