package codec

import "github.com/mkarls/wireweave/pkg/schema"

// Bag is a schema-bound property container: an order-independent map from
// field name to Value. Wire order comes from the schema, never from the bag,
// so insertion order has no effect on serialized bytes.
//
// A Bag is not safe for concurrent mutation; callers must not write to it
// while it is being serialized elsewhere.
type Bag struct {
	schema *schema.Schema
	values map[string]Value
}

// NewBag builds an empty bag bound to s.
func NewBag(s *schema.Schema) *Bag {
	return &Bag{schema: s, values: make(map[string]Value)}
}

// Schema returns the schema the bag was bound to at construction.
func (b *Bag) Schema() *schema.Schema { return b.schema }

// Set stores a value under name. Setting None removes the entry, mirroring
// the legacy format's "write null to clear" behavior.
func (b *Bag) Set(name string, v Value) {
	if v.IsNone() {
		delete(b.values, name)
		return
	}
	b.values[name] = v
}

// Get returns the value stored under name, or None if absent. Codecs turn
// None into the field type's zero bytes rather than failing.
func (b *Bag) Get(name string) Value {
	return b.values[name]
}

// Has reports whether the bag holds a value for name.
func (b *Bag) Has(name string) bool {
	_, ok := b.values[name]
	return ok
}

// Len returns the number of populated fields.
func (b *Bag) Len() int { return len(b.values) }
