package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/decocms/mcps/internal/errors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".mcps.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultLoader_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	loader := &DefaultLoader{}

	cfg, err := loader.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, 3, cfg.Retry.MaxRetries)
	require.Equal(t, 500*time.Millisecond, cfg.Retry.InitialDelay())
	require.Equal(t, 200*time.Millisecond, cfg.Retry.MaxJitter())
}

func TestDefaultLoader_EmptyPath(t *testing.T) {
	t.Parallel()

	loader := &DefaultLoader{}

	_, err := loader.Load("   ")
	require.Error(t, err)
}

func TestDefaultLoader_LoadsPlatforms(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[api]
addr = "127.0.0.1:9000"
cors_enabled = true

[retry]
max_retries = 5
initial_delay_ms = 250
max_jitter_ms = 50

[platforms.commerce]
base_url = "https://api.commerce.test"
auth_header = "X-Auth-Token"
credential_env = "COMMERCE_TOKEN"

[platforms.commerce.headers]
"X-Account" = "acme"

[platforms.cms]
base_url = "https://cms.test/api"
auth_scheme = "Bearer"
credential_env = "CMS_TOKEN"
`)

	loader := &DefaultLoader{}
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9000", cfg.API.Addr)
	require.True(t, cfg.API.CORSEnabled)
	require.Equal(t, 5, cfg.Retry.MaxRetries)
	require.Equal(t, 250*time.Millisecond, cfg.Retry.InitialDelay())

	require.Equal(t, []string{"cms", "commerce"}, cfg.PlatformNames())

	commerce := cfg.Platforms["commerce"]
	require.Equal(t, "https://api.commerce.test", commerce.BaseURL)
	require.Equal(t, "X-Auth-Token", commerce.AuthHeader)
	require.Equal(t, map[string]string{"X-Account": "acme"}, commerce.Headers)
}

func TestDefaultLoader_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents string
	}{
		{
			name: "missing base URL",
			contents: `
[platforms.commerce]
auth_header = "X-Auth-Token"
`,
		},
		{
			name: "negative retries",
			contents: `
[retry]
max_retries = -1
`,
		},
		{
			name: "empty api addr",
			contents: `
[api]
addr = "  "
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			loader := &DefaultLoader{}
			_, err := loader.Load(writeConfig(t, tc.contents))
			require.Error(t, err)
		})
	}
}

func TestPlatformConfig_ResolveHeaders(t *testing.T) {
	tests := []struct {
		name     string
		platform PlatformConfig
		env      map[string]string
		want     map[string]string
		wantErr  error
	}{
		{
			name:     "no credential required",
			platform: PlatformConfig{Headers: map[string]string{"X-Account": "acme"}},
			want:     map[string]string{"X-Account": "acme"},
		},
		{
			name: "default authorization header with scheme",
			platform: PlatformConfig{
				AuthScheme:    "Bearer",
				CredentialEnv: "MCPS_TEST_TOKEN_A",
			},
			env:  map[string]string{"MCPS_TEST_TOKEN_A": "secret"},
			want: map[string]string{"Authorization": "Bearer secret"},
		},
		{
			name: "custom header bare credential",
			platform: PlatformConfig{
				AuthHeader:    "X-Auth-Token",
				CredentialEnv: "MCPS_TEST_TOKEN_B",
			},
			env:  map[string]string{"MCPS_TEST_TOKEN_B": "tok"},
			want: map[string]string{"X-Auth-Token": "tok"},
		},
		{
			name: "missing credential",
			platform: PlatformConfig{
				CredentialEnv: "MCPS_TEST_TOKEN_UNSET",
			},
			wantErr: errors.ErrMissingCredential,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			got, err := tc.platform.ResolveHeaders()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
