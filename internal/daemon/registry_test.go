package daemon

import (
	"context"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/decocms/mcps/internal/contracts"
)

func boundTool(name string) contracts.BoundTool {
	return contracts.BoundTool{
		Tool: mcp.NewTool(name),
		Handler: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(name), nil
		},
	}
}

func TestCatalogRegistry_AddAndPlatforms(t *testing.T) {
	t.Parallel()

	r := NewCatalogRegistry()
	require.Empty(t, r.Platforms())

	r.Add("cms", []contracts.BoundTool{boundTool("cms_list_collections")})
	r.Add("commerce", []contracts.BoundTool{boundTool("commerce_get_product")})

	require.ElementsMatch(t, []string{"cms", "commerce"}, r.Platforms())
}

func TestCatalogRegistry_Tools(t *testing.T) {
	t.Parallel()

	r := NewCatalogRegistry()
	r.Add("cms", []contracts.BoundTool{
		boundTool("cms_list_collections"),
		boundTool("cms_get_document"),
	})

	tools, ok := r.Tools("cms")
	require.True(t, ok)
	require.Len(t, tools, 2)
	require.Equal(t, "cms_list_collections", tools[0].Name)
	require.Equal(t, "cms_get_document", tools[1].Name)

	_, ok = r.Tools("unknown")
	require.False(t, ok)
}

func TestCatalogRegistry_Handler(t *testing.T) {
	t.Parallel()

	r := NewCatalogRegistry()
	r.Add("mediagen", []contracts.BoundTool{boundTool("mediagen_list_models")})

	handler, ok := r.Handler("mediagen", "mediagen_list_models")
	require.True(t, ok)
	require.NotNil(t, handler)

	_, ok = r.Handler("mediagen", "missing_tool")
	require.False(t, ok)

	_, ok = r.Handler("missing_platform", "mediagen_list_models")
	require.False(t, ok)
}

func TestCatalogRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewCatalogRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Add("cms", []contracts.BoundTool{boundTool("cms_list_collections")})
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Tools("cms")
			_ = r.Platforms()
		}()
	}

	wg.Wait()
	tools, ok := r.Tools("cms")
	require.True(t, ok)
	require.Len(t, tools, 1)
}
