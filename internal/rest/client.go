// Package rest issues the actual HTTP calls behind every bound operation.
// It turns a StructuredCall plus an endpoint template into a request and
// normalizes the response into an invoke.Result, leaving transport errors
// untouched so the retry layer can classify them.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/decocms/mcps/internal/invoke"
	"github.com/decocms/mcps/internal/reqschema"
)

// Endpoint identifies one operation on an external platform.
type Endpoint struct {
	// Method is the HTTP method, e.g. http.MethodGet.
	Method string

	// Path is the URL path template with {param} placeholders, relative
	// to the client's base URL, e.g. "/catalog/products/{productId}".
	Path string
}

// Client calls a single external REST platform.
// NewClient should be used to create instances of Client.
// Clients are safe for concurrent use.
type Client struct {
	logger     hclog.Logger
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// NewClient creates a client for the platform rooted at baseURL.
func NewClient(logger hclog.Logger, baseURL string, opt ...ClientOption) (*Client, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	c := &Client{
		logger:     logger.Named("rest"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultRequestTimeout()},
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// DefaultRequestTimeout returns the per-request timeout applied when no
// custom HTTP client is supplied.
func DefaultRequestTimeout() time.Duration {
	return 30 * time.Second
}

// Call executes one structured call against the endpoint. Path parameters
// are substituted into the template, query parameters URL-encoded, and the
// body JSON-encoded when present. A 2xx response yields the decoded JSON
// payload; any other status yields an *invoke.StatusError carrying the
// status code and decoded body. Transport failures are returned verbatim.
func (c *Client) Call(
	ctx context.Context,
	ep Endpoint,
	call reqschema.StructuredCall,
	headers map[string]string,
) invoke.Result {
	target, err := c.buildURL(ep.Path, call)
	if err != nil {
		return invoke.Result{Err: err}
	}

	var body io.Reader
	if call.Body != nil {
		encoded, err := json.Marshal(call.Body)
		if err != nil {
			return invoke.Result{Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, target, body)
	if err != nil {
		return invoke.Result{Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("calling platform endpoint", "method", ep.Method, "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return invoke.Result{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return invoke.Result{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var payload any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			// Not all platforms return JSON on failure paths.
			payload = string(raw)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return invoke.Result{Err: &invoke.StatusError{Status: resp.StatusCode, Body: payload}}
	}

	return invoke.Result{Data: payload}
}

// buildURL substitutes path parameters into the endpoint template and
// appends the encoded query string. Every placeholder must be satisfied by
// the call's path part.
func (c *Client) buildURL(template string, call reqschema.StructuredCall) (string, error) {
	path := template
	for name, value := range call.Path {
		placeholder := "{" + name + "}"
		if !strings.Contains(path, placeholder) {
			continue
		}
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(stringify(value)))
	}

	if i := strings.IndexByte(path, '{'); i >= 0 {
		if j := strings.IndexByte(path[i:], '}'); j >= 0 {
			return "", fmt.Errorf("missing path parameter %q", path[i+1:i+j])
		}
	}

	target := c.baseURL + path

	if len(call.Query) > 0 {
		values := url.Values{}
		for name, value := range call.Query {
			switch v := value.(type) {
			case []any:
				for _, item := range v {
					values.Add(name, stringify(item))
				}
			default:
				values.Set(name, stringify(value))
			}
		}
		target += "?" + values.Encode()
	}

	return target, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so they survive as path segments.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
