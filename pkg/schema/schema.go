// Package schema describes record layouts for the legacy wire format.
//
// A Schema is an ordered list of field definitions. Field order is the wire
// order: the codec walks fields in declaration order in both directions, so
// two schemas with the same fields in a different order describe different
// byte layouts.
package schema

import "strings"

// Field type tags understood by the codec. Tags are matched
// case-insensitively; RefTarget extracts the parameter of a ref(...) tag.
const (
	TypeInt8      = "int8"
	TypeUint8     = "uint8"
	TypeInt16     = "int16"
	TypeUint16    = "uint16"
	TypeInt32     = "int32"
	TypeUint32    = "uint32"
	TypeInt64     = "int64"
	TypeUint64    = "uint64"
	TypeFloat     = "float"
	TypeDouble    = "double"
	TypeBool      = "bool"
	TypeString    = "string"
	TypePoint3F   = "point3f"
	TypeTimestamp = "timestamp"
	TypeArray     = "array"
)

// Metadata keys consumed by the codec.
const (
	MetaEncoding = "encoding" // string character encoding
	MetaSize     = "size"     // string length-prefix mode / array count width
	MetaItemType = "itemType" // array element type tag
)

// Meta is the open per-field metadata map. Values come from the schema
// loader, so numeric entries may arrive as any integer type.
type Meta map[string]interface{}

// String returns the named entry as a string, or def if absent or not a
// string.
func (m Meta) String(key, def string) string {
	if m == nil {
		return def
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

// Int returns the named entry as an int, or def if absent. Accepts the
// integer widths yaml and hand-built maps produce.
func (m Meta) Int(key string, def int) int {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Field is one named slot in a record layout.
type Field struct {
	Name string
	Type string
	Meta Meta
}

// Schema is an immutable description of a record type. Construct it once and
// register it; do not mutate fields after it is shared with a Registry.
type Schema struct {
	Name   string
	Kind   string // "object" for record schemas
	Fields []Field
}

// New builds an object schema with the given fields in wire order.
func New(name string, fields ...Field) *Schema {
	return &Schema{Name: name, Kind: "object", Fields: fields}
}

// Field returns the definition of the named field, or nil if absent.
func (s *Schema) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// IsRef reports whether tag is a ref(...) type tag.
func IsRef(tag string) bool {
	t := strings.ToLower(strings.TrimSpace(tag))
	return strings.HasPrefix(t, "ref(") && strings.HasSuffix(t, ")")
}

// RefTarget extracts the target token from a ref(...) tag. Returns "" if the
// tag is not a reference.
func RefTarget(tag string) string {
	t := strings.TrimSpace(tag)
	if !IsRef(t) {
		return ""
	}
	return strings.TrimSpace(t[len("ref(") : len(t)-1])
}

// Canonical lowercases a type tag for dispatch.
func Canonical(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
