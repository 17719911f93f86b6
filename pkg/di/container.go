// Package di wires the application's components together from configuration.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mkarls/wireweave/pkg/api"
	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/config"
	"github.com/mkarls/wireweave/pkg/schema"
	"github.com/mkarls/wireweave/pkg/store"
)

// Container holds the application's shared dependencies. The registry is
// explicit rather than process-global so tests and embedders control its
// lifetime.
type Container struct {
	cfg      *config.Config
	registry *schema.Registry
	codec    *codec.Codec
	store    *store.RecordStore
	log      zerolog.Logger
}

// New builds a container from configuration: naming aliases extend the stock
// table, the codec picks up the lenient flag, and schemas are loaded from the
// configured directory if one is set.
func New(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	aliases := make(map[string]string, len(schema.DefaultAliases)+len(cfg.Codec.Aliases))
	for k, v := range schema.DefaultAliases {
		aliases[k] = v
	}
	for k, v := range cfg.Codec.Aliases {
		aliases[k] = v
	}
	registry := schema.NewRegistryWithNaming(schema.FileNaming(aliases))

	if cfg.SchemaDir != "" {
		if err := schema.LoadDir(cfg.SchemaDir, registry); err != nil {
			return nil, fmt.Errorf("failed to load schemas: %w", err)
		}
		log.Info().Str("dir", cfg.SchemaDir).Int("schemas", len(registry.Names())).Msg("schemas loaded")
	}

	c := codec.NewWithOptions(registry, codec.Options{Lenient: cfg.Codec.Lenient})

	recordStore, err := store.Open(cfg.DataDir, c)
	if err != nil {
		return nil, err
	}

	return &Container{
		cfg:      cfg,
		registry: registry,
		codec:    c,
		store:    recordStore,
		log:      log,
	}, nil
}

// Registry returns the schema registry.
func (c *Container) Registry() *schema.Registry { return c.registry }

// Codec returns the shared codec.
func (c *Container) Codec() *codec.Codec { return c.codec }

// Store returns the record store.
func (c *Container) Store() *store.RecordStore { return c.store }

// Server builds the HTTP API server over the container's store.
func (c *Container) Server(metrics *api.Metrics) *api.Server {
	return api.NewServer(c.store, api.ServerConfig{
		Bind:   c.cfg.Bind,
		Port:   c.cfg.Port,
		APIKey: c.cfg.APIKey,
	}, metrics, c.log)
}

// Close releases the container's resources.
func (c *Container) Close() error {
	return c.store.Close()
}
