// Package codec implements the legacy schema-driven binary wire format.
//
// The codec is driven entirely by externally authored schema descriptions: a
// Schema lists named fields in wire order, each with a type tag and optional
// metadata, and the codec serializes a property bag (Bag) to the exact byte
// layout those fields describe, and reconstructs it from bytes.
//
// # Wire Format
//
// A record is the concatenation of its fields' encodings in schema
// declaration order. There is no magic header or version byte; the consumer
// must already know which schema applies to a buffer. Fixed-width fields are
// little-endian:
//
//	int8/uint8/bool   1 byte
//	int16/uint16      2 bytes
//	int32/uint32      4 bytes
//	int64/uint64      8 bytes
//	float             4 bytes (IEEE-754)
//	double            8 bytes (IEEE-754)
//	point3f           12 bytes: three float32 in x, z, y order
//	timestamp         4 bytes: unsigned Unix seconds, UTC
//
// Strings are a length prefix followed by the encoded text; the prefix mode
// (meta key "size") is a 4-byte signed integer by default, with 1-byte,
// 2-byte, and compact-integer alternatives. The "encoding" key selects
// ascii, utf8 (default), or utf16; utf16 payloads carry a 2-byte null
// terminator. Arrays are a count prefix (width from "size", default 4-byte
// signed) followed by the elements. A ref(Name) field embeds another
// schema's record at a fixed offset, framed by that schema's fixed byte
// length, which is why referenced sub-schemas must contain only fixed-width
// fields.
//
// # Usage
//
//	reg := schema.NewRegistry()
//	reg.Register(stats)
//
//	c := codec.New(reg)
//	bag := codec.NewBag(stats)
//	bag.Set("vigor", codec.Int(1))
//
//	data, err := c.Serialize(bag)
//	if err != nil {
//	    return err
//	}
//	back, err := c.Deserialize(data, stats)
//
// Serialize and Deserialize are pure computations over in-memory buffers; a
// failed call never returns a partially filled bag or a truncated buffer.
package codec
