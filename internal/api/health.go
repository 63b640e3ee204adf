package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/decocms/mcps/internal/contracts"
	"github.com/decocms/mcps/internal/domain"
)

const (
	HealthStatusOK          HealthStatus = "ok"
	HealthStatusTimeout     HealthStatus = "timeout"
	HealthStatusUnreachable HealthStatus = "unreachable"
	HealthStatusUnknown     HealthStatus = "unknown"
)

// DomainPlatformHealth is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainPlatformHealth domain.PlatformHealth

// HealthStatus represents the reachability of a platform's REST API.
type HealthStatus string

// PlatformHealth reports the outcome of ongoing reachability checks against a platform.
type PlatformHealth struct {
	Name           string       `json:"name"`
	Status         HealthStatus `json:"status"`
	Latency        *string      `json:"latency,omitempty"`
	LastChecked    *time.Time   `json:"lastChecked,omitempty"`
	LastSuccessful *time.Time   `json:"lastSuccessful,omitempty"`
}

// PlatformsHealthResponse is the response for GET /health/platforms.
type PlatformsHealthResponse struct {
	Body struct {
		Platforms []PlatformHealth `doc:"Tracked platform health statuses" json:"platforms"`
	}
}

// PlatformHealthRequest represents the incoming request for obtaining a single PlatformHealth.
type PlatformHealthRequest struct {
	Name string `doc:"Name of the platform to check" example:"cms" path:"name"`
}

// PlatformHealthResponse represents the wrapped API response for a PlatformHealth.
type PlatformHealthResponse struct {
	Body PlatformHealth
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainPlatformHealth) ToAPIType() (PlatformHealth, error) {
	status, err := parseHealthStatus(d.Status)
	if err != nil {
		return PlatformHealth{}, err
	}

	var latency *string
	if d.Latency != nil {
		s := time.Duration(*d.Latency).String()
		latency = &s
	}
	return PlatformHealth{
		Name:           d.Name,
		Status:         status,
		Latency:        latency,
		LastChecked:    d.LastChecked,
		LastSuccessful: d.LastSuccessful,
	}, nil
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, monitor contracts.HealthMonitor, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Health"}

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "listPlatformsHealth",
			Method:      http.MethodGet,
			Path:        "/platforms",
			Summary:     "List the health statuses for all platforms",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*PlatformsHealthResponse, error) {
			return handleHealthPlatforms(monitor)
		},
	)

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "getPlatformHealth",
			Method:      http.MethodGet,
			Path:        "/platforms/{name}",
			Summary:     "Get the health status of a platform",
			Tags:        tags,
		},
		func(ctx context.Context, input *PlatformHealthRequest) (*PlatformHealthResponse, error) {
			return handleHealthPlatform(monitor, input.Name)
		},
	)
}

// handleHealthPlatforms is the handler for retrieving the current health for all configured platforms.
func handleHealthPlatforms(monitor contracts.HealthMonitor) (*PlatformsHealthResponse, error) {
	platforms := monitor.List()

	slices.SortFunc(platforms, func(a, b domain.PlatformHealth) int {
		return strings.Compare(a.Name, b.Name)
	})

	apiPlatforms := make([]PlatformHealth, 0, len(platforms))
	for _, p := range platforms {
		data, err := DomainPlatformHealth(p).ToAPIType()
		if err != nil {
			return nil, err
		}
		apiPlatforms = append(apiPlatforms, data)
	}

	resp := &PlatformsHealthResponse{}
	resp.Body.Platforms = apiPlatforms

	return resp, nil
}

// handleHealthPlatform is the handler for retrieving the current health of the specified platform.
func handleHealthPlatform(monitor contracts.HealthMonitor, name string) (*PlatformHealthResponse, error) {
	health, err := monitor.Status(name)
	if err != nil {
		return nil, err
	}

	data, err := DomainPlatformHealth(health).ToAPIType()
	if err != nil {
		return nil, err
	}

	response := PlatformHealthResponse{}
	response.Body = data

	return &response, nil
}

func parseHealthStatus(status domain.HealthStatus) (HealthStatus, error) {
	switch status {
	case domain.HealthStatusOK:
		return HealthStatusOK, nil
	case domain.HealthStatusTimeout:
		return HealthStatusTimeout, nil
	case domain.HealthStatusUnreachable:
		return HealthStatusUnreachable, nil
	case domain.HealthStatusUnknown:
		return HealthStatusUnknown, nil
	default:
		return "", fmt.Errorf("unknown health status: %s", status)
	}
}
