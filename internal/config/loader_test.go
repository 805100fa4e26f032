package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "explicit config file must exist")

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, 5.0, cfg.Gateway.QPS)
	require.Equal(t, "memory", cfg.Cache.Backend)
	require.Equal(t, time.Hour, cfg.Cache.DefaultTTL)
	require.Equal(t, "https://maps.googleapis.com/maps/api", cfg.API.BaseURL)
	require.Same(t, cfg, Get())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
api:
  key: test-key
gateway:
  qps: 2
  timeout: 5s
cache:
  backend: sqlite
  default_ttl: 30m
store:
  path: ` + filepath.Join(dir, "cache.db") + `
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "test-key", cfg.API.Key)
	require.Equal(t, 2.0, cfg.Gateway.QPS)
	require.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	require.Equal(t, "sqlite", cfg.Cache.Backend)
	require.Equal(t, 30*time.Minute, cfg.Cache.DefaultTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GEOLENS_API_KEY", "env-key")
	t.Setenv("GEOLENS_GATEWAY_QPS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.API.Key)
	require.Equal(t, 7.0, cfg.Gateway.QPS)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway:\n  qps: 0\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "gateway.qps")
}

func TestTTLForFallsBack(t *testing.T) {
	cfg := CacheConfig{DefaultTTL: time.Hour, TimezoneTTL: 24 * time.Hour}
	require.Equal(t, time.Hour, cfg.TTLFor("geocode"))
	require.Equal(t, 24*time.Hour, cfg.TTLFor("timezone"))
	require.Equal(t, time.Hour, cfg.TTLFor("unknown"))
}
