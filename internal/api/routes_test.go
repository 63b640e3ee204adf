package api

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/decocms/mcps/internal/contracts"
	"github.com/decocms/mcps/internal/domain"
)

func newTestRouter(t *testing.T) huma.API {
	t.Helper()
	return humachi.New(chi.NewMux(), huma.DefaultConfig("test", "0.0.0"))
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	monitor := &fakeHealthMonitor{statuses: map[string]domain.PlatformHealth{}}
	accessor := &fakeCatalogAccessor{catalogs: map[string][]contracts.BoundTool{}}

	prefix, err := RegisterRoutes(newTestRouter(t), monitor, accessor)
	require.NoError(t, err)
	require.Equal(t, "/api/v1", prefix)
}

func TestRegisterRoutes_NilDependencies(t *testing.T) {
	t.Parallel()

	monitor := &fakeHealthMonitor{statuses: map[string]domain.PlatformHealth{}}
	accessor := &fakeCatalogAccessor{catalogs: map[string][]contracts.BoundTool{}}

	_, err := RegisterRoutes(nil, monitor, accessor)
	require.ErrorContains(t, err, "router cannot be nil")

	_, err = RegisterRoutes(newTestRouter(t), nil, accessor)
	require.ErrorContains(t, err, "health tracker cannot be nil")

	_, err = RegisterRoutes(newTestRouter(t), monitor, nil)
	require.ErrorContains(t, err, "catalog accessor cannot be nil")
}
