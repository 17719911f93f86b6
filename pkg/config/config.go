// Package config loads the wireweave service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the wireweave service configuration.
type Config struct {
	// DataDir holds the pebble record store.
	DataDir string `yaml:"data_dir"`
	// SchemaDir is scanned for *.yaml schema descriptions at startup.
	SchemaDir string `yaml:"schema_dir"`
	Bind      string `yaml:"bind"`
	Port      int    `yaml:"port"`
	// APIKey protects the HTTP API; empty disables authentication.
	APIKey  string  `yaml:"api_key"`
	Codec   Codec   `yaml:"codec"`
	Logging Logging `yaml:"logging"`
}

// Codec holds codec behavior switches.
type Codec struct {
	// Lenient restores the legacy tolerance for unresolved references
	// instead of failing the call.
	Lenient bool `yaml:"lenient"`
	// Aliases extends the filename-to-schema-name table used when
	// resolving ref(...) tokens.
	Aliases map[string]string `yaml:"aliases"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		DataDir:   "./data",
		SchemaDir: "./schemas",
		Bind:      "127.0.0.1",
		Port:      8400,
		Logging:   Logging{Level: "info"},
	}
}

// Load reads configuration from the specified path.
func Load(path string) (*Config, error) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		path = abs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the specified path, creating the parent
// directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
