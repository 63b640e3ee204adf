// Package config loads the .mcps.toml file describing the external
// platforms exposed as MCP tool servers, the daemon API, and the retry
// policy applied to every outgoing call.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/decocms/mcps/internal/errors"
)

var _ Loader = (*DefaultLoader)(nil)

// Loader loads daemon configuration from a file path.
type Loader interface {
	Load(path string) (*Config, error)
}

// DefaultLoader loads configuration from a TOML file on disk.
type DefaultLoader struct{}

// Config represents the .mcps.toml file structure.
type Config struct {
	API       APIConfig                 `toml:"api"`
	Retry     RetryConfig               `toml:"retry"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

// APIConfig configures the daemon's HTTP API.
type APIConfig struct {
	// Addr is the network address the API binds, e.g. "0.0.0.0:8090".
	Addr string `toml:"addr"`

	// CORSEnabled adds CORS headers to API responses.
	CORSEnabled bool `toml:"cors_enabled"`
}

// RetryConfig configures the resilient invoker shared by all platforms.
type RetryConfig struct {
	// MaxRetries is the retry budget after the initial attempt.
	MaxRetries int `toml:"max_retries"`

	// InitialDelayMs is the base backoff delay in milliseconds.
	InitialDelayMs int `toml:"initial_delay_ms"`

	// MaxJitterMs bounds the uniform random jitter in milliseconds.
	MaxJitterMs int `toml:"max_jitter_ms"`
}

// InitialDelay returns the base backoff delay as a duration.
func (r RetryConfig) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMs) * time.Millisecond
}

// MaxJitter returns the jitter bound as a duration.
func (r RetryConfig) MaxJitter() time.Duration {
	return time.Duration(r.MaxJitterMs) * time.Millisecond
}

// PlatformConfig describes one external REST platform.
type PlatformConfig struct {
	// BaseURL is the platform API root, e.g. "https://api.example.com".
	BaseURL string `toml:"base_url"`

	// AuthHeader names the header carrying the credential.
	// Defaults to "Authorization".
	AuthHeader string `toml:"auth_header"`

	// AuthScheme prefixes the credential value, e.g. "Bearer".
	// Empty means the credential is sent bare.
	AuthScheme string `toml:"auth_scheme"`

	// CredentialEnv names the environment variable holding the credential.
	// Empty means the platform needs no credential.
	CredentialEnv string `toml:"credential_env"`

	// Headers lists additional static headers sent on every call.
	Headers map[string]string `toml:"headers"`
}

// ResolveHeaders materializes the header set for one call, reading the
// credential from the environment. Credentials are resolved per call so a
// rotated secret takes effect without a restart.
func (p PlatformConfig) ResolveHeaders() (map[string]string, error) {
	headers := make(map[string]string, len(p.Headers)+1)
	for k, v := range p.Headers {
		headers[k] = v
	}

	if p.CredentialEnv == "" {
		return headers, nil
	}

	credential := strings.TrimSpace(os.Getenv(p.CredentialEnv))
	if credential == "" {
		return nil, fmt.Errorf("%w: environment variable %q is not set", errors.ErrMissingCredential, p.CredentialEnv)
	}

	name := p.AuthHeader
	if name == "" {
		name = "Authorization"
	}
	if p.AuthScheme != "" {
		credential = p.AuthScheme + " " + credential
	}
	headers[name] = credential

	return headers, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Addr: "0.0.0.0:8090",
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialDelayMs: 500,
			MaxJitterMs:    200,
		},
		Platforms: map[string]PlatformConfig{},
	}
}

// Load reads and validates the TOML file at path. A missing file yields
// the default configuration.
func (l *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to stat config file %q: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the loaded configuration for structural problems.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Addr) == "" {
		return fmt.Errorf("api.addr cannot be empty")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries cannot be negative")
	}
	if c.Retry.InitialDelayMs < 0 {
		return fmt.Errorf("retry.initial_delay_ms cannot be negative")
	}
	if c.Retry.MaxJitterMs < 0 {
		return fmt.Errorf("retry.max_jitter_ms cannot be negative")
	}

	for name, p := range c.Platforms {
		if strings.TrimSpace(p.BaseURL) == "" {
			return fmt.Errorf("platforms.%s.base_url cannot be empty", name)
		}
	}

	return nil
}

// PlatformNames returns the configured platform names, sorted.
func (c *Config) PlatformNames() []string {
	names := make([]string, 0, len(c.Platforms))
	for name := range c.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
