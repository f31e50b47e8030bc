package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sharehub", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.Equal(t, "http://localhost:9090", cfg.Gateway.ServerURL)
	assert.Equal(t, 60, cfg.Gateway.RateLimit.WindowSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
app:
  name: sharehub-test
  environment: test
server:
  port: 9191
gateway:
  port: 8181
  server_url: http://core:9191
  rate_limit:
    enabled: true
    requests: 100
    window_seconds: 30
database:
  path: data/test.db
redis:
  address: localhost:6379
monitoring:
  prometheus_enabled: true
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sharehub-test", cfg.App.Name)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "http://core:9191", cfg.Gateway.ServerURL)
	assert.True(t, cfg.Gateway.RateLimit.Enabled)
	assert.Equal(t, int64(100), cfg.Gateway.RateLimit.Requests)
	assert.Equal(t, 30, cfg.Gateway.RateLimit.WindowSeconds)
	assert.Equal(t, 9100, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/expanded.db")
	path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	t.Run("MissingDatabasePath", func(t *testing.T) {
		path := writeConfig(t, `
gateway:
  server_url: http://localhost:9090
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("RateLimitEnabledWithoutBudget", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: data/test.db
gateway:
  rate_limit:
    enabled: true
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
