package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/config"
)

func TestContainer_New(t *testing.T) {
	dir := t.TempDir()
	schemaDir := filepath.Join(dir, "schemas")
	require.NoError(t, os.Mkdir(schemaDir, 0o755))
	body := "name: GuildRoster\nfields:\n  - name: count\n    type: uint8"
	require.NoError(t, os.WriteFile(filepath.Join(schemaDir, "guildroster.yaml"), []byte(body), 0o644))

	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.SchemaDir = schemaDir
	cfg.Codec.Aliases = map[string]string{"guildroster": "GuildRoster"}

	c, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NotNil(t, c.Registry().Lookup("GuildRoster"))

	// Configured aliases reach the naming strategy.
	assert.NotNil(t, c.Registry().Resolve("guildroster.0x01.def"))

	// The loaded schema is usable end to end.
	bag := codec.NewBag(c.Registry().Lookup("GuildRoster"))
	bag.Set("count", codec.Uint(9))
	id, err := c.Store().Put(bag)
	require.NoError(t, err)
	back, err := c.Store().Get("GuildRoster", id)
	require.NoError(t, err)
	count, err := back.Get("count").Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), count)
}

func TestContainer_MissingSchemaDir(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.SchemaDir = filepath.Join(t.TempDir(), "absent")

	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)
}
