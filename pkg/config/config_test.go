package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
data_dir: /var/lib/wireweave
port: 9000
codec:
  lenient: true
  aliases:
    guildroster: GuildRoster
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/wireweave", cfg.DataDir)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Codec.Lenient)
	assert.Equal(t, "GuildRoster", cfg.Codec.Aliases["guildroster"])

	// Unset keys keep their defaults.
	assert.Equal(t, "127.0.0.1", cfg.Bind)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "./schemas", cfg.SchemaDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.APIKey = "secret"

	require.NoError(t, Save(cfg, path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
