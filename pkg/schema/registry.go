package schema

import (
	"strings"
	"sync"
	"unicode"
)

// NamingStrategy maps a reference token that failed an exact lookup to a
// candidate schema name. Registry owners supply their own strategy when the
// default filename heuristic is not enough.
type NamingStrategy func(token string) string

// DefaultAliases holds the stems the stock naming strategy maps specially.
// Multi-word schema names cannot be recovered by title-casing alone, so each
// needs an explicit entry.
var DefaultAliases = map[string]string{
	"playerinfo": "PlayerInfo",
}

// FileNaming derives a schema name from a filename-like token: it strips a
// trailing extension and a trailing dotted version suffix (such as ".0x00"),
// consults the alias table, and otherwise title-cases the first rune.
func FileNaming(aliases map[string]string) NamingStrategy {
	return func(token string) string {
		stem := token
		if i := strings.LastIndex(stem, "."); i >= 0 {
			stem = stem[:i]
		}
		// Version suffixes look like ".0x00" or ".2".
		if i := strings.LastIndex(stem, "."); i >= 0 && isVersionSuffix(stem[i+1:]) {
			stem = stem[:i]
		}
		if stem == "" {
			return ""
		}
		if name, ok := aliases[strings.ToLower(stem)]; ok {
			return name
		}
		r := []rune(stem)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
}

func isVersionSuffix(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		s = s[2:]
	}
	for _, r := range s {
		if !unicode.Is(unicode.Hex_Digit, r) {
			return false
		}
	}
	return s != ""
}

// Registry is a name-to-schema lookup shared by the codec's reference
// resolver. It is safe for concurrent use; registration is last-write-wins.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	naming  NamingStrategy
}

// NewRegistry builds an empty registry using the stock filename naming
// strategy with DefaultAliases.
func NewRegistry() *Registry {
	return NewRegistryWithNaming(FileNaming(DefaultAliases))
}

// NewRegistryWithNaming builds an empty registry with a caller-supplied
// naming strategy.
func NewRegistryWithNaming(naming NamingStrategy) *Registry {
	return &Registry{
		schemas: make(map[string]*Schema),
		naming:  naming,
	}
}

// Register inserts or overwrites a schema keyed by its name. Schemas with an
// empty name are ignored.
func (r *Registry) Register(s *Schema) {
	if s == nil || s.Name == "" {
		return
	}
	r.mu.Lock()
	r.schemas[s.Name] = s
	r.mu.Unlock()
}

// Lookup returns the schema registered under name, or nil.
func (r *Registry) Lookup(name string) *Schema {
	r.mu.RLock()
	s := r.schemas[name]
	r.mu.RUnlock()
	return s
}

// Resolve finds the schema for a ref(...) token: first an exact lookup, then
// a retry with the name derived by the naming strategy. Returns nil if both
// fail.
func (r *Registry) Resolve(token string) *Schema {
	if s := r.Lookup(token); s != nil {
		return s
	}
	if r.naming == nil {
		return nil
	}
	if name := r.naming(token); name != "" {
		return r.Lookup(name)
	}
	return nil
}

// Names returns the registered schema names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}
