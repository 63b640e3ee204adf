package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/decocms/mcps/internal/invoke"
	"github.com/decocms/mcps/internal/reqschema"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(hclog.NewNullLogger(), srv.URL)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		logger  hclog.Logger
		baseURL string
	}{
		{name: "nil logger", logger: nil, baseURL: "https://example.test"},
		{name: "empty base URL", logger: hclog.NewNullLogger(), baseURL: "  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(tc.logger, tc.baseURL)
			require.Error(t, err)
		})
	}
}

func TestClient_Call_BuildsRequest(t *testing.T) {
	t.Parallel()

	var (
		gotPath   string
		gotQuery  string
		gotAuth   string
		gotMethod string
		gotBody   map[string]any
	)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p-1"}`))
	}))

	call := reqschema.StructuredCall{
		Path:  map[string]any{"productId": float64(42)},
		Query: map[string]any{"expand": "sku"},
		Body:  map[string]any{"name": "Widget"},
	}

	res := c.Call(
		context.Background(),
		Endpoint{Method: http.MethodPut, Path: "/catalog/products/{productId}"},
		call,
		map[string]string{"Authorization": "Bearer token-1"},
	)

	require.NoError(t, res.Err)
	require.Equal(t, map[string]any{"id": "p-1"}, res.Data)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/catalog/products/42", gotPath)
	require.Equal(t, "expand=sku", gotQuery)
	require.Equal(t, "Bearer token-1", gotAuth)
	require.Equal(t, map[string]any{"name": "Widget"}, gotBody)
}

func TestClient_Call_RepeatedQueryValues(t *testing.T) {
	t.Parallel()

	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))

	res := c.Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "/search"}, reqschema.StructuredCall{
		Query: map[string]any{"tag": []any{"a", "b"}},
	}, nil)

	require.NoError(t, res.Err)
	require.Equal(t, "tag=a&tag=b", gotQuery)
}

func TestClient_Call_MissingPathParameter(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	res := c.Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "/orders/{orderId}"}, reqschema.StructuredCall{}, nil)

	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "orderId")
}

func TestClient_Call_StatusErrorCarriesBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"throttled"}`))
	}))

	res := c.Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "/models"}, reqschema.StructuredCall{}, nil)

	var statusErr *invoke.StatusError
	require.ErrorAs(t, res.Err, &statusErr)
	require.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	require.Equal(t, map[string]any{"error": "throttled"}, statusErr.Body)
	require.Equal(t, invoke.ClassHTTPTransient, invoke.Classify(res.Err))
}

func TestClient_Call_NonJSONErrorBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))

	res := c.Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "/models"}, reqschema.StructuredCall{}, nil)

	var statusErr *invoke.StatusError
	require.ErrorAs(t, res.Err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.Status)
	require.Equal(t, "upstream unavailable", statusErr.Body)
}

func TestClient_Call_EmptyResponseBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	res := c.Call(context.Background(), Endpoint{Method: http.MethodDelete, Path: "/documents/d1"}, reqschema.StructuredCall{}, nil)

	require.NoError(t, res.Err)
	require.Nil(t, res.Data)
}

func TestClient_Call_TransportErrorReturnedVerbatim(t *testing.T) {
	t.Parallel()

	// Point at a closed server so the dial fails at the socket level.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c, err := NewClient(hclog.NewNullLogger(), addr)
	require.NoError(t, err)

	res := c.Call(context.Background(), Endpoint{Method: http.MethodGet, Path: "/ping"}, reqschema.StructuredCall{}, nil)

	require.Error(t, res.Err)
	var statusErr *invoke.StatusError
	require.False(t, errors.As(res.Err, &statusErr))
	require.Equal(t, invoke.ClassNetworkTransient, invoke.Classify(res.Err))
}
