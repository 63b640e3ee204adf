package daemon

import (
	"net/http"
	"time"
)

// APIOptions contains optional configuration for the API server.
// NewAPIOptions should be used to create instances of APIOptions.
type APIOptions struct {
	// CORS configuration for cross-origin requests.
	CORS CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// CORSConfig defines Cross-Origin Resource Sharing settings for the API server.
type CORSConfig struct {
	// Enabled determines whether CORS headers are added to responses.
	Enabled bool

	// AllowOrigins specifies which origins can access the API.
	AllowOrigins []string

	// AllowMethods specifies which HTTP methods are permitted.
	AllowMethods []string

	// AllowedHeaders specifies which headers the client can include in requests.
	AllowedHeaders []string
}

// APIOption defines a functional option for configuring APIOptions.
// Options are applied in order, with later options overriding earlier ones.
type APIOption func(*APIOptions) error

// NewAPIOptions creates APIOptions with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewAPIOptions(opt ...APIOption) (APIOptions, error) {
	options := APIOptions{
		CORS: CORSConfig{
			Enabled:        false,
			AllowOrigins:   []string{"*"},
			AllowMethods:   DefaultCORSAllowMethods(),
			AllowedHeaders: DefaultCORSAllowHeaders(),
		},
		ShutdownTimeout: DefaultAPIShutdownTimeout(),
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&options); err != nil {
			return APIOptions{}, err
		}
	}

	return options, nil
}

// WithCORSEnabled enables or disables CORS support.
func WithCORSEnabled(enabled bool) APIOption {
	return func(o *APIOptions) error {
		o.CORS.Enabled = enabled
		return nil
	}
}

// WithCORSAllowOrigins sets which origins can access the API.
func WithCORSAllowOrigins(origins ...string) APIOption {
	return func(o *APIOptions) error {
		o.CORS.AllowOrigins = origins
		return nil
	}
}

// WithShutdownTimeout sets how long to wait for graceful shutdown.
func WithShutdownTimeout(d time.Duration) APIOption {
	return func(o *APIOptions) error {
		o.ShutdownTimeout = d
		return nil
	}
}

// DefaultCORSAllowMethods returns the HTTP methods permitted by default.
func DefaultCORSAllowMethods() []string {
	return []string{http.MethodGet, http.MethodPost, http.MethodOptions}
}

// DefaultCORSAllowHeaders returns the request headers permitted by default.
func DefaultCORSAllowHeaders() []string {
	return []string{"Accept", "Content-Type"}
}

// DefaultAPIShutdownTimeout returns the default graceful shutdown window.
func DefaultAPIShutdownTimeout() time.Duration {
	return 5 * time.Second
}
