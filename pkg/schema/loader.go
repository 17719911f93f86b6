package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// fileSchema mirrors the on-disk schema description. Fields are a list, not
// a map, because YAML maps do not preserve order and field order is the wire
// order.
type fileSchema struct {
	Name   string      `yaml:"name"`
	Kind   string      `yaml:"kind"`
	Fields []fileField `yaml:"fields"`
}

type fileField struct {
	Name string                 `yaml:"name"`
	Type string                 `yaml:"type"`
	Meta map[string]interface{} `yaml:"meta"`
}

// Parse builds a Schema from a YAML schema description.
func Parse(data []byte) (*Schema, error) {
	var fs fileSchema
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if fs.Name == "" {
		return nil, fmt.Errorf("schema has no name")
	}
	if fs.Kind == "" {
		fs.Kind = "object"
	}
	s := &Schema{Name: fs.Name, Kind: fs.Kind, Fields: make([]Field, 0, len(fs.Fields))}
	for _, f := range fs.Fields {
		if f.Name == "" || f.Type == "" {
			return nil, fmt.Errorf("schema %q: field needs both name and type", fs.Name)
		}
		s.Fields = append(s.Fields, Field{Name: f.Name, Type: f.Type, Meta: Meta(f.Meta)})
	}
	return s, nil
}

// LoadFile reads and parses one schema description file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDir loads every .yaml/.yml file in dir into the registry. Files are
// visited in lexical order so repeated names resolve deterministically
// (last registration wins).
func LoadDir(dir string, reg *Registry) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read schema dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		s, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		reg.Register(s)
	}
	return nil
}
