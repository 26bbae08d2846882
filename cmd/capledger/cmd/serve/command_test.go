package serve

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

type stubApp struct{}

func (stubApp) API() (*api.Client, error) { return nil, nil }
func (stubApp) Logger() *zerolog.Logger   { l := zerolog.Nop(); return &l }
func (stubApp) Today() string             { return "2024-06-01" }
func (stubApp) SessionCookie() string     { return "session" }

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"8080", 8080, false},
		{"1", 1, false},
		{"65535", 65535, false},
		{"0", 0, true},
		{"65536", 0, true},
		{"http", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePort(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parsePort(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("parsePort(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("HTTP_HOST", "")
	t.Setenv(EnvCSRFKey, "")

	cmd := NewCommand(stubApp{})
	cfg, err := parseConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, 30*time.Minute, cfg.ConsoleTTL)
	assert.Empty(t, cfg.CSRFKey)
	assert.False(t, cfg.SecureCookies)
}

func TestParseConfigFlagsAndEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_HOST", "0.0.0.0")
	t.Setenv(EnvCSRFKey, "")

	cmd := NewCommand(stubApp{})
	require.NoError(t, cmd.Flags().Parse([]string{
		"--port", "3000",
		"--secure-cookies",
		"--trusted-origins", "console.acme.io,admin.acme.io",
		"--rate-limit", "0",
		"--console-ttl", "2h",
		"--csrf-key", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
	}))

	cfg, err := parseConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port, "HTTP_PORT wins over --port")
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, []string{"console.acme.io", "admin.acme.io"}, cfg.TrustedOrigins)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.Equal(t, 2*time.Hour, cfg.ConsoleTTL)
	assert.Len(t, cfg.CSRFKey, 32)
}

func TestParseConfigBadEnvPortIgnored(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("HTTP_HOST", "")

	cfg, err := parseConfig(NewCommand(stubApp{}))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestParseConfigCSRFKeyFromEnv(t *testing.T) {
	t.Setenv(EnvCSRFKey, "zz")

	_, err := parseConfig(NewCommand(stubApp{}))
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "csrf_key", ce.Component)
}
