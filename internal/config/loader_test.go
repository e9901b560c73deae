package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "memory", cfg.Session.Driver)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, 15*time.Second, cfg.Search.Timeout)
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
	require.Contains(t, cfg.Research.TLDs, ".com")
	require.Equal(t, "US", cfg.Research.CountryCode)
	require.Equal(t, 500*time.Millisecond, cfg.Research.PaceInterval)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 0.0.0.0
  port: 9000
session:
  driver: libsql
  path: /tmp/sessions.db
search:
  api_key: brave-file
  timeout: 20s
research:
  tlds: [".dev", ".app"]
  country_code: US
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "libsql", cfg.Session.Driver)
	require.Equal(t, "brave-file", cfg.Search.APIKey)
	require.Equal(t, 20*time.Second, cfg.Search.Timeout)
	require.Equal(t, []string{".dev", ".app"}, cfg.Research.TLDs)
	// Unset fields keep their defaults.
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BRANDSCOPE_SERVER_PORT", "9999")
	t.Setenv("BRANDSCOPE_LLM_API_KEY", "sk-env")
	t.Setenv("BRANDSCOPE_SEARCH_TIMEOUT", "30s")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "sk-env", cfg.LLM.APIKey)
	require.Equal(t, 30*time.Second, cfg.Search.Timeout)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
