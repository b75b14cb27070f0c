package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-document-manager/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legaldocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://api.firma.co
  timeout: 10s
storage:
  backend: sqlite
  sqlite_path: /tmp/mirror.db
session:
  idle_timeout: 5m
`), 0o600))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.firma.co", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 20, cfg.API.Burst)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "local", cfg.Files.Backend)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LEGALDOCS_API_URL":      "http://backend:8000",
		"LEGALDOCS_TOKEN":        "tok",
		"LOG_LEVEL":              "debug",
		"AWS_SAM_LOCAL":          "true",
		"LEGALDOCS_IDLE_TIMEOUT": "90s",
		"LEGALDOCS_FILES":        "s3",
		"LEGALDOCS_S3_BUCKET":    "exports",
		"LEGALDOCS_USER_ID":      "42",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "http://backend:8000", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Storage.Local)
	assert.Equal(t, 90*time.Second, cfg.Session.IdleTimeout)
	assert.Equal(t, int64(42), cfg.API.UserID)
	require.NoError(t, cfg.Validate())

	env["LEGALDOCS_IDLE_TIMEOUT"] = "pronto"
	require.Error(t, config.DefaultConfig().ApplyEnv(lookup))
}

func TestValidate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = "postgres"
	cfg.Files.Backend = "s3"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
	assert.Contains(t, err.Error(), "files.bucket")
}

func TestLoadExplicitPath(t *testing.T) {
	t.Setenv("LEGALDOCS_API_URL", "http://env:9000")
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file:8000\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9000", cfg.API.BaseURL)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "legaldocs.yaml")
	cfg := config.DefaultConfig()
	cfg.Preview.Addr = "127.0.0.1:9999"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveSessionKeepsOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legaldocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file:8000\npreview:\n  addr: 127.0.0.1:9000\n"), 0o600))
	t.Setenv("LEGALDOCS_API_URL", "http://env:9000")

	require.NoError(t, config.SaveSession(path, "tok", 7))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "env:9000")
	assert.NotContains(t, string(data), "idle_timeout")

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, int64(7), cfg.API.UserID)
	assert.Equal(t, "http://file:8000", cfg.API.BaseURL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Preview.Addr)

	require.NoError(t, config.SaveSession(path, "", 0))
	cfg, err = config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.API.Token)
	assert.Zero(t, cfg.API.UserID)
	assert.Equal(t, "http://file:8000", cfg.API.BaseURL)
}

func TestSaveSessionClearWithoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "legaldocs.yaml")
	require.NoError(t, config.SaveSession(path, "", 0))
	assert.NoFileExists(t, path)
}
