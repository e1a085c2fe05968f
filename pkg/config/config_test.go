package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 1, cfg.Poll.Page)
	assert.Equal(t, 10, cfg.Poll.Limit)
	assert.Empty(t, cfg.Remote.BaseURL)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
remote:
  base_url: https://backend.internal
  api_key: secret
poll:
  interval: 30s
  limit: 25
logging:
  file_path: /var/log/admin.log
  production: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://backend.internal", cfg.Remote.BaseURL)
	assert.Equal(t, "secret", cfg.Remote.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 25, cfg.Poll.Limit)
	assert.Equal(t, 1, cfg.Poll.Page, "unset fields keep their defaults")
	assert.Equal(t, "/var/log/admin.log", cfg.Logging.FilePath)
	assert.True(t, cfg.Logging.Production)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
server:
  hostname: 127.0.0.1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)
	t.Setenv("ADMIN_HOST", "10.0.0.5")
	t.Setenv("ADMIN_PORT", "9001")
	t.Setenv("ADMIN_REMOTE_URL", "https://override.internal")
	t.Setenv("ADMIN_REMOTE_API_KEY", "env-key")
	t.Setenv("ADMIN_POLL_INTERVAL", "2m")
	t.Setenv("ADMIN_LOG_FILE", "/tmp/admin.log")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Server.Host)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "https://override.internal", cfg.Remote.BaseURL)
	assert.Equal(t, "env-key", cfg.Remote.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.Poll.Interval)
	assert.Equal(t, "/tmp/admin.log", cfg.Logging.FilePath)
}

func TestEnvIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("ADMIN_PORT", "not-a-port")
	t.Setenv("ADMIN_POLL_INTERVAL", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Poll.Interval = -time.Second
	assert.Error(t, cfg.Validate())
}
