package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/mkarls/wireweave/pkg/schema"
)

// fixedWidth returns the wire width of a fixed-width type tag. The second
// result is false for string, array, reference, and unknown tags.
func fixedWidth(tag string) (int, bool) {
	switch schema.Canonical(tag) {
	case schema.TypeInt8, schema.TypeUint8, schema.TypeBool:
		return 1, true
	case schema.TypeInt16, schema.TypeUint16:
		return 2, true
	case schema.TypeInt32, schema.TypeUint32, schema.TypeFloat, schema.TypeTimestamp:
		return 4, true
	case schema.TypeInt64, schema.TypeUint64, schema.TypeDouble:
		return 8, true
	case schema.TypePoint3F:
		return 12, true
	default:
		return 0, false
	}
}

// appendFixed encodes one fixed-width value. A None value writes the type's
// zero bytes. All multi-byte quantities are little-endian.
func appendFixed(dst []byte, tag string, v Value) ([]byte, error) {
	switch schema.Canonical(tag) {
	case schema.TypeInt8:
		n, err := v.Int()
		if err != nil {
			return nil, err
		}
		return append(dst, byte(n)), nil
	case schema.TypeUint8:
		n, err := v.Uint()
		if err != nil {
			return nil, err
		}
		return append(dst, byte(n)), nil
	case schema.TypeBool:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		if b {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case schema.TypeInt16:
		n, err := v.Int()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint16(dst, uint16(n)), nil
	case schema.TypeUint16:
		n, err := v.Uint()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint16(dst, uint16(n)), nil
	case schema.TypeInt32:
		n, err := v.Int()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(dst, uint32(n)), nil
	case schema.TypeUint32:
		n, err := v.Uint()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(dst, uint32(n)), nil
	case schema.TypeInt64:
		n, err := v.Int()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(dst, uint64(n)), nil
	case schema.TypeUint64:
		n, err := v.Uint()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(dst, n), nil
	case schema.TypeFloat:
		f, err := v.Float()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(f))), nil
	case schema.TypeDouble:
		f, err := v.Float()
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f)), nil
	case schema.TypePoint3F:
		p, err := v.Point()
		if err != nil {
			return nil, err
		}
		// Legacy wire order is x, z, y.
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(p.X))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(p.Z))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(p.Y))
		return dst, nil
	case schema.TypeTimestamp:
		t, err := v.Time()
		if err != nil {
			return nil, err
		}
		var secs uint32
		if !t.IsZero() {
			// Truncates to 32 bits, matching the legacy format; wraps
			// past 2106.
			secs = uint32(t.Unix())
		}
		return binary.LittleEndian.AppendUint32(dst, secs), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, tag)
	}
}

// readFixed decodes one fixed-width value from the cursor.
func readFixed(r *reader, tag string) (Value, error) {
	switch schema.Canonical(tag) {
	case schema.TypeInt8:
		b, err := r.byte()
		if err != nil {
			return None, err
		}
		return Int(int64(int8(b))), nil
	case schema.TypeUint8:
		b, err := r.byte()
		if err != nil {
			return None, err
		}
		return Uint(uint64(b)), nil
	case schema.TypeBool:
		b, err := r.byte()
		if err != nil {
			return None, err
		}
		return Bool(b != 0), nil
	case schema.TypeInt16:
		n, err := r.uint16()
		if err != nil {
			return None, err
		}
		return Int(int64(int16(n))), nil
	case schema.TypeUint16:
		n, err := r.uint16()
		if err != nil {
			return None, err
		}
		return Uint(uint64(n)), nil
	case schema.TypeInt32:
		n, err := r.uint32()
		if err != nil {
			return None, err
		}
		return Int(int64(int32(n))), nil
	case schema.TypeUint32:
		n, err := r.uint32()
		if err != nil {
			return None, err
		}
		return Uint(uint64(n)), nil
	case schema.TypeInt64:
		n, err := r.uint64()
		if err != nil {
			return None, err
		}
		return Int(int64(n)), nil
	case schema.TypeUint64:
		n, err := r.uint64()
		if err != nil {
			return None, err
		}
		return Uint(n), nil
	case schema.TypeFloat:
		n, err := r.uint32()
		if err != nil {
			return None, err
		}
		return Float(float64(math.Float32frombits(n))), nil
	case schema.TypeDouble:
		n, err := r.uint64()
		if err != nil {
			return None, err
		}
		return Float(math.Float64frombits(n)), nil
	case schema.TypePoint3F:
		var p Point3F
		x, err := r.uint32()
		if err != nil {
			return None, err
		}
		z, err := r.uint32()
		if err != nil {
			return None, err
		}
		y, err := r.uint32()
		if err != nil {
			return None, err
		}
		p.X = math.Float32frombits(x)
		p.Z = math.Float32frombits(z)
		p.Y = math.Float32frombits(y)
		return Point(p), nil
	case schema.TypeTimestamp:
		secs, err := r.uint32()
		if err != nil {
			return None, err
		}
		return Time(time.Unix(int64(secs), 0).UTC()), nil
	default:
		return None, fmt.Errorf("%w: %s", ErrUnsupportedType, tag)
	}
}
