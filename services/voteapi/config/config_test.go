package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, "https://hub.snapshot.org/graphql", cfg.HubURL)
	require.Equal(t, 20, cfg.PageSize)
	require.Equal(t, 300.0, cfg.RateLimit)
	require.Equal(t, "deepseek-chat", cfg.AI.Model)
	require.Equal(t, 0.3, cfg.AI.Temperature)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
snapshot_hub: "https://testnet.hub.snapshot.org/graphql"
database: "/tmp/test.db"
page_size: 50
allowed_origins:
  - "https://app.example.com"
ai:
  model: "deepseek-reasoner"
  max_tokens: 500
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddress)
	require.Equal(t, "https://testnet.hub.snapshot.org/graphql", cfg.HubURL)
	require.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	require.Equal(t, 50, cfg.PageSize)
	require.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	require.Equal(t, "deepseek-reasoner", cfg.AI.Model)
	require.Equal(t, 500, cfg.AI.MaxTokens)
	// Untouched fields keep their defaults.
	require.Equal(t, "https://seq.snapshot.org", cfg.SequencerURL)
}

func TestLoadRejectsOversizedPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 500\n"), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "page_size")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
