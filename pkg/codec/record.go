package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/mkarls/wireweave/pkg/schema"
)

// Options tune the codec's handling of the legacy format's loose spots.
type Options struct {
	// Lenient restores the legacy tolerance for unresolved references and
	// non-conforming array items on encode. Instead of failing, a
	// reference field whose target schema is unknown contributes no
	// bytes, and a reference-typed array item that is missing or bound to
	// the wrong schema is written as a zero-filled block of the item
	// schema's fixed length (so the count prefix stays consistent with
	// the payload, unlike the original's silent omission).
	//
	// The default is strict: both conditions fail the call.
	Lenient bool
}

// Codec serializes property bags to the legacy wire layout and back. It is
// stateless apart from the registry used to resolve ref(...) fields, so one
// Codec can be shared freely across goroutines.
type Codec struct {
	reg  *schema.Registry
	opts Options
}

// New builds a strict codec over the given registry.
func New(reg *schema.Registry) *Codec {
	return NewWithOptions(reg, Options{})
}

// NewWithOptions builds a codec with explicit options.
func NewWithOptions(reg *schema.Registry, opts Options) *Codec {
	return &Codec{reg: reg, opts: opts}
}

// Registry returns the registry the codec resolves references through.
func (c *Codec) Registry() *schema.Registry { return c.reg }

// Serialize encodes the bag's fields in schema declaration order and returns
// the wire bytes. Fields absent from the bag encode as their type's zero
// bytes.
func (c *Codec) Serialize(b *Bag) ([]byte, error) {
	if b == nil || b.Schema() == nil || b.Schema().Fields == nil {
		return nil, fmt.Errorf("%w: bag has no field collection", ErrInvalidSchema)
	}
	s := b.Schema()
	out := []byte{}
	for i := range s.Fields {
		f := &s.Fields[i]
		encoded, err := c.appendField(out, f, b.Get(f.Name))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out = encoded
	}
	return out, nil
}

// Deserialize decodes data against s, walking fields in declaration order
// with a sequential cursor, and returns a new bag bound to s.
func (c *Codec) Deserialize(data []byte, s *schema.Schema) (*Bag, error) {
	if s == nil || s.Fields == nil {
		return nil, fmt.Errorf("%w: schema has no field collection", ErrInvalidSchema)
	}
	r := newReader(data)
	b := NewBag(s)
	for i := range s.Fields {
		f := &s.Fields[i]
		v, err := c.readField(r, f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		b.Set(f.Name, v)
	}
	return b, nil
}

// FixedLength returns the total wire length of a schema composed entirely of
// fixed-width fields. Schemas containing string, array, or reference fields
// have no fixed length and yield ErrNotFixedWidth; the legacy implementation
// summed a negative sentinel instead, silently corrupting the total.
func (c *Codec) FixedLength(s *schema.Schema) (int, error) {
	if s == nil || s.Fields == nil {
		return 0, fmt.Errorf("%w: schema has no field collection", ErrInvalidSchema)
	}
	total := 0
	for i := range s.Fields {
		f := &s.Fields[i]
		w, ok := fixedWidth(f.Type)
		if !ok {
			tag := schema.Canonical(f.Type)
			if tag != schema.TypeString && tag != schema.TypeArray && !schema.IsRef(f.Type) {
				return 0, fmt.Errorf("field %q: %w: %s", f.Name, ErrUnsupportedType, f.Type)
			}
			return 0, fmt.Errorf("field %q has variable width: %w", f.Name, ErrNotFixedWidth)
		}
		total += w
	}
	return total, nil
}

// appendField dispatches one field to its codec by type tag.
func (c *Codec) appendField(dst []byte, f *schema.Field, v Value) ([]byte, error) {
	if schema.IsRef(f.Type) {
		return c.appendRef(dst, schema.RefTarget(f.Type), v)
	}
	switch tag := schema.Canonical(f.Type); tag {
	case schema.TypeString:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return appendString(dst, s, f.Meta)
	case schema.TypeArray:
		return c.appendArray(dst, f, v)
	default:
		if _, ok := fixedWidth(tag); ok {
			return appendFixed(dst, tag, v)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, f.Type)
	}
}

func (c *Codec) readField(r *reader, f *schema.Field) (Value, error) {
	if schema.IsRef(f.Type) {
		return c.readRef(r, schema.RefTarget(f.Type))
	}
	switch tag := schema.Canonical(f.Type); tag {
	case schema.TypeString:
		s, err := readString(r, f.Meta)
		if err != nil {
			return None, err
		}
		return String(s), nil
	case schema.TypeArray:
		return c.readArray(r, f)
	default:
		if _, ok := fixedWidth(tag); ok {
			return readFixed(r, tag)
		}
		return None, fmt.Errorf("%w: %s", ErrUnsupportedType, f.Type)
	}
}

// resolveRef finds the schema for a reference token and its fixed frame
// length. Referenced sub-schemas must be entirely fixed-width; framing is
// impossible otherwise.
func (c *Codec) resolveRef(target string) (*schema.Schema, int, error) {
	if c.reg == nil {
		return nil, 0, fmt.Errorf("%w: no registry configured", ErrUnresolvedRef)
	}
	sub := c.reg.Resolve(target)
	if sub == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnresolvedRef, target)
	}
	n, err := c.FixedLength(sub)
	if err != nil {
		return nil, 0, fmt.Errorf("referenced schema %q: %w", sub.Name, err)
	}
	return sub, n, nil
}

// refRecord extracts the nested bag for a reference slot, verifying it is
// bound to the expected schema. A nil bag is valid and encodes as zeros.
func refRecord(v Value, sub *schema.Schema) (*Bag, error) {
	rec, err := v.Record()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if rec.Schema() == nil || rec.Schema().Name != sub.Name {
		return nil, fmt.Errorf("%w: record is not bound to %q", ErrTypeMismatch, sub.Name)
	}
	return rec, nil
}

// appendRef encodes a ref(...) field as an embedded fixed-length sub-record.
func (c *Codec) appendRef(dst []byte, target string, v Value) ([]byte, error) {
	sub, frame, err := c.resolveRef(target)
	if err != nil {
		// Legacy behavior under Lenient: an unresolved reference
		// contributes nothing.
		if c.opts.Lenient {
			return dst, nil
		}
		return nil, err
	}
	rec, err := refRecord(v, sub)
	if err != nil {
		if !c.opts.Lenient {
			return nil, err
		}
		rec = nil
	}
	if rec == nil {
		// Missing sub-record: zero bytes keep the frame aligned.
		return append(dst, make([]byte, frame)...), nil
	}
	sb, err := c.Serialize(rec)
	if err != nil {
		return nil, err
	}
	return append(dst, sb...), nil
}

func (c *Codec) readRef(r *reader, target string) (Value, error) {
	sub, frame, err := c.resolveRef(target)
	if err != nil {
		return None, err
	}
	raw, err := r.take(frame)
	if err != nil {
		return None, err
	}
	rec, err := c.Deserialize(raw, sub)
	if err != nil {
		return None, err
	}
	return Record(rec), nil
}

// appendArray encodes a count prefix followed by each element in order.
func (c *Codec) appendArray(dst []byte, f *schema.Field, v Value) ([]byte, error) {
	itemType := f.Meta.String(schema.MetaItemType, "")
	if itemType == "" {
		return nil, fmt.Errorf("%w: array field missing itemType", ErrInvalidSchema)
	}
	items, err := v.List()
	if err != nil {
		return nil, err
	}
	dst, err = appendArrayCount(dst, f.Meta, len(items))
	if err != nil {
		return nil, err
	}
	if schema.IsRef(itemType) {
		return c.appendRefItems(dst, schema.RefTarget(itemType), items)
	}
	for i, item := range items {
		dst, err = c.appendItem(dst, itemType, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return dst, nil
}

// appendRefItems writes reference-typed array elements. Each element
// occupies exactly the item schema's fixed length, so a missing or
// mismatched element zero-fills its slot under Lenient rather than being
// omitted; the original skipped such items and left the count prefix lying
// about the payload.
func (c *Codec) appendRefItems(dst []byte, target string, items []Value) ([]byte, error) {
	sub, frame, err := c.resolveRef(target)
	if err != nil {
		if c.opts.Lenient {
			return dst, nil
		}
		return nil, err
	}
	for i, item := range items {
		rec, recErr := refRecord(item, sub)
		if recErr != nil {
			if !c.opts.Lenient {
				return nil, fmt.Errorf("item %d: %w", i, recErr)
			}
			rec = nil
		}
		if rec == nil {
			dst = append(dst, make([]byte, frame)...)
			continue
		}
		sb, err := c.Serialize(rec)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		dst = append(dst, sb...)
	}
	return dst, nil
}

// appendItem encodes one non-reference array element. Elements carry no
// per-item metadata, so strings use the default utf8/int32-prefix modes.
func (c *Codec) appendItem(dst []byte, itemType string, v Value) ([]byte, error) {
	tag := schema.Canonical(itemType)
	if tag == schema.TypeString {
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return appendString(dst, s, nil)
	}
	if _, ok := fixedWidth(tag); ok {
		return appendFixed(dst, tag, v)
	}
	return nil, fmt.Errorf("%w: array item type %s", ErrUnsupportedType, itemType)
}

func (c *Codec) readArray(r *reader, f *schema.Field) (Value, error) {
	itemType := f.Meta.String(schema.MetaItemType, "")
	if itemType == "" {
		return None, fmt.Errorf("%w: array field missing itemType", ErrInvalidSchema)
	}
	count, err := readArrayCount(r, f.Meta)
	if err != nil {
		return None, err
	}
	capHint := count
	if capHint > r.remaining() {
		capHint = r.remaining()
	}
	items := make([]Value, 0, capHint)
	if schema.IsRef(itemType) {
		target := schema.RefTarget(itemType)
		for i := 0; i < count; i++ {
			item, err := c.readRef(r, target)
			if err != nil {
				return None, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, item)
		}
		return List(items...), nil
	}
	for i := 0; i < count; i++ {
		item, err := c.readItem(r, itemType)
		if err != nil {
			return None, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return List(items...), nil
}

func (c *Codec) readItem(r *reader, itemType string) (Value, error) {
	tag := schema.Canonical(itemType)
	if tag == schema.TypeString {
		s, err := readString(r, nil)
		if err != nil {
			return None, err
		}
		return String(s), nil
	}
	if _, ok := fixedWidth(tag); ok {
		return readFixed(r, tag)
	}
	return None, fmt.Errorf("%w: array item type %s", ErrUnsupportedType, itemType)
}

// appendArrayCount writes the count prefix. Widths 1, 2, and 4 are explicit;
// anything else (including a missing size) falls back to a 4-byte signed
// count, matching the legacy default.
func appendArrayCount(dst []byte, meta schema.Meta, count int) ([]byte, error) {
	switch meta.Int(schema.MetaSize, sizeInt32) {
	case sizeByte:
		if count > 0xFF {
			return nil, fmt.Errorf("array of %d items exceeds 1-byte count prefix", count)
		}
		return append(dst, byte(count)), nil
	case sizeUshort:
		if count > 0xFFFF {
			return nil, fmt.Errorf("array of %d items exceeds 2-byte count prefix", count)
		}
		return binary.LittleEndian.AppendUint16(dst, uint16(count)), nil
	default:
		return binary.LittleEndian.AppendUint32(dst, uint32(int32(count))), nil
	}
}

func readArrayCount(r *reader, meta schema.Meta) (int, error) {
	switch meta.Int(schema.MetaSize, sizeInt32) {
	case sizeByte:
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		return int(b), nil
	case sizeUshort:
		u, err := r.uint16()
		if err != nil {
			return 0, err
		}
		return int(u), nil
	default:
		raw, err := r.uint32()
		if err != nil {
			return 0, err
		}
		n := int(int32(raw))
		if n < 0 {
			return 0, fmt.Errorf("negative array count %d", n)
		}
		return n, nil
	}
}
