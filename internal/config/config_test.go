package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOMESERV_API_URL", "")
	t.Setenv("HOMESERV_HTTP_TIMEOUT", "")
	t.Setenv("HOMESERV_SESSION_BACKEND", "")
	t.Setenv("HOMESERV_SESSION_DIR", "/tmp/homeserv-state")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.API.Timeout)
	assert.Equal(t, "file", cfg.Session.Backend)
	assert.Equal(t, "/tmp/homeserv-state", cfg.Session.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOMESERV_API_URL", "https://api.example.com/api/")
	t.Setenv("HOMESERV_HTTP_TIMEOUT", "5s")
	t.Setenv("HOMESERV_SESSION_BACKEND", "SQLite")
	t.Setenv("HOMESERV_SESSION_DIR", "/var/lib/homeserv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api/", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Session.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOMESERV_HTTP_TIMEOUT", "soon")
	t.Setenv("HOMESERV_SESSION_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPTimeout, cfg.API.Timeout)
}
