package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/decocms/mcps/internal/contracts"
	"github.com/decocms/mcps/internal/errors"
)

// toolCallTimeout bounds a single forwarded tool call, including its retries.
const toolCallTimeout = 60 * time.Second

// PlatformsResponse represents the wrapped API response for listing platforms.
type PlatformsResponse struct {
	Body []string
}

// PlatformToolsRequest represents the incoming request for listing a platform's tools.
type PlatformToolsRequest struct {
	Platform string `doc:"Name of the platform" example:"cms" path:"platform"`
}

// ToolCallRequest represents the incoming request for calling a platform tool.
type ToolCallRequest struct {
	Platform string         `doc:"Name of the platform"                 example:"cms"              path:"platform"`
	Tool     string         `doc:"Name of the tool to call"             example:"cms_get_document" path:"tool"`
	Body     map[string]any `doc:"Flat arguments for the tool to call"`
}

// ToolCallResponse represents the wrapped API response for calling a tool.
type ToolCallResponse struct {
	Body string
}

// Tool represents a platform tool definition, including its flat input schema.
type Tool struct {
	// Name of the tool.
	Name string `doc:"Name of the tool" json:"name"`

	// Description is a human-readable description of the tool.
	Description string `doc:"Description of what the tool does" json:"description"`

	// InputSchema is JSON Schema defining the expected flat parameters for the tool.
	InputSchema json.RawMessage `doc:"Input parameters schema" json:"inputSchema,omitempty"`

	// Annotations provide optional additional tool information.
	Annotations *ToolAnnotations `doc:"Additional hints about the tool" json:"annotations,omitempty"`
}

// ToolAnnotations provides additional properties describing a Tool to clients.
// All properties are hints and are not guaranteed to faithfully describe tool behavior.
type ToolAnnotations struct {
	// ReadOnlyHint if true, the tool should not modify its environment.
	ReadOnlyHint *bool `json:"readOnlyHint,omitempty"`

	// DestructiveHint if true, the tool may perform destructive updates to its environment.
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
}

// ToolsResponse represents the wrapped API response for a platform's tool definitions.
type ToolsResponse struct {
	Body struct {
		Tools []Tool `doc:"Tool definitions for the platform" json:"tools"`
	}
}

// DomainTool wraps mcp.Tool for conversion to Tool via ToAPIType.
type DomainTool mcp.Tool

// ToAPIType converts a wrapped domain type to Tool.
func (d DomainTool) ToAPIType() Tool {
	var annotations *ToolAnnotations
	if d.Annotations.ReadOnlyHint != nil || d.Annotations.DestructiveHint != nil {
		annotations = &ToolAnnotations{
			ReadOnlyHint:    d.Annotations.ReadOnlyHint,
			DestructiveHint: d.Annotations.DestructiveHint,
		}
	}

	return Tool{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.RawInputSchema,
		Annotations: annotations,
	}
}

// RegisterPlatformRoutes sets up platform and tool related API endpoint routes.
func RegisterPlatformRoutes(routerAPI huma.API, catalogs contracts.CatalogAccessor, apiPathPrefix string) {
	platformsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Platforms"}

	// Add route at the root of the group (no path specified).
	huma.Register(
		platformsAPI,
		huma.Operation{
			OperationID: "listPlatforms",
			Method:      http.MethodGet,
			Summary:     "List all platforms",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*PlatformsResponse, error) {
			return handlePlatforms(catalogs)
		},
	)

	huma.Register(
		platformsAPI,
		huma.Operation{
			OperationID: "listTools",
			Method:      http.MethodGet,
			Path:        "/{platform}/tools",
			Summary:     "List platform tools",
			Tags:        append(tags, "Tools"),
		},
		func(ctx context.Context, input *PlatformToolsRequest) (*ToolsResponse, error) {
			return handlePlatformTools(catalogs, input.Platform)
		},
	)

	huma.Register(
		platformsAPI,
		huma.Operation{
			OperationID: "callTool",
			Method:      http.MethodPost,
			Path:        "/{platform}/tools/{tool}",
			Summary:     "Call a tool for a platform",
			Tags:        append(tags, "Tools"),
		},
		func(ctx context.Context, input *ToolCallRequest) (*ToolCallResponse, error) {
			return handleToolCall(ctx, catalogs, input.Platform, input.Tool, input.Body)
		},
	)
}

// handlePlatforms returns the list of configured platforms.
func handlePlatforms(catalogs contracts.CatalogAccessor) (*PlatformsResponse, error) {
	platforms := catalogs.Platforms()
	slices.Sort(platforms)

	resp := &PlatformsResponse{}
	resp.Body = platforms

	return resp, nil
}

// handlePlatformTools returns the flat tool definitions for a given platform.
func handlePlatformTools(catalogs contracts.CatalogAccessor, platform string) (*ToolsResponse, error) {
	tools, ok := catalogs.Tools(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrPlatformNotFound, platform)
	}

	apiTools := make([]Tool, 0, len(tools))
	for _, tool := range tools {
		apiTools = append(apiTools, DomainTool(tool).ToAPIType())
	}

	resp := &ToolsResponse{}
	resp.Body.Tools = apiTools

	return resp, nil
}

// handleToolCall forwards a flat tool call to the bound handler for the platform tool.
func handleToolCall(
	ctx context.Context,
	catalogs contracts.CatalogAccessor,
	platform string,
	tool string,
	args map[string]any,
) (*ToolCallResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, toolCallTimeout)
	defer cancel()

	if _, ok := catalogs.Tools(platform); !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrPlatformNotFound, platform)
	}

	handler, ok := catalogs.Handler(platform, tool)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", errors.ErrToolNotFound, platform, tool)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	result, err := handler(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", errors.ErrToolCallFailed, platform, tool, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s/%s: result was nil", errors.ErrToolCallFailed, platform, tool)
	}
	if result.IsError {
		return nil, fmt.Errorf("%w: %s/%s: %v", errors.ErrToolCallFailed, platform, tool, extractMessage(result.Content))
	}

	resp := &ToolCallResponse{}
	resp.Body = extractMessage(result.Content)

	return resp, nil
}

// extractMessage attempts to extract a single message from content that is returned from a tool call.
func extractMessage(content []mcp.Content) string {
	for _, c := range content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
