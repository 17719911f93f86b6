package codec

import (
	"fmt"
	"math"
	"time"
)

// Kind discriminates the variants a Value can hold.
type Kind uint8

// Value variants. KindNone is the zero Value and stands for "no value";
// encoding a field whose bag entry is KindNone writes the type's zero bytes.
const (
	KindNone Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindString
	KindPoint
	KindTime
	KindList
	KindRecord
)

var kindNames = [...]string{
	"none", "int", "uint", "float", "bool", "string",
	"point3f", "timestamp", "list", "record",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Point3F is the fixed 12-byte geometric type. The wire layout writes the
// coordinates in x, z, y order; the struct keeps conventional naming and the
// codec handles the interleave.
type Point3F struct {
	X, Y, Z float32
}

const pointEpsilon = 1e-5

// ApproxEqual compares coordinates within a small absolute epsilon, the way
// the legacy format compared points. Never compare floats bitwise here.
func (p Point3F) ApproxEqual(o Point3F) bool {
	return approx32(p.X, o.X) && approx32(p.Y, o.Y) && approx32(p.Z, o.Z)
}

func approx32(a, b float32) bool {
	return math.Abs(float64(a)-float64(b)) <= pointEpsilon
}

// Value is the dynamically typed slot a property bag stores per field. It is
// a tagged union: exactly one variant is populated, selected by Kind.
// Accessors return ErrTypeMismatch instead of coercing.
type Value struct {
	kind Kind
	num  uint64
	f    float64
	s    string
	p    Point3F
	t    time.Time
	list []Value
	rec  *Bag
}

// None is the absent value.
var None = Value{}

// Int wraps a signed integer.
func Int(v int64) Value { return Value{kind: KindInt, num: uint64(v)} }

// Uint wraps an unsigned integer.
func Uint(v uint64) Value { return Value{kind: KindUint, num: v} }

// Float wraps a floating-point number (both float and double fields).
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Bool wraps a boolean.
func Bool(v bool) Value {
	var n uint64
	if v {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// String wraps a text value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Point wraps a Point3F.
func Point(v Point3F) Value { return Value{kind: KindPoint, p: v} }

// Time wraps a timestamp.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// List wraps a homogeneous sequence for array fields.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Record wraps a nested bag for ref(...) fields.
func Record(b *Bag) Value { return Value{kind: KindRecord, rec: b} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether the value is absent.
func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) mismatch(want Kind) error {
	return fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, v.kind, want)
}

// Int returns the signed integer variant. KindNone yields 0.
func (v Value) Int() (int64, error) {
	switch v.kind {
	case KindInt:
		return int64(v.num), nil
	case KindNone:
		return 0, nil
	default:
		return 0, v.mismatch(KindInt)
	}
}

// Uint returns the unsigned integer variant. KindNone yields 0.
func (v Value) Uint() (uint64, error) {
	switch v.kind {
	case KindUint:
		return v.num, nil
	case KindNone:
		return 0, nil
	default:
		return 0, v.mismatch(KindUint)
	}
}

// Float returns the floating-point variant. KindNone yields 0.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindNone:
		return 0, nil
	default:
		return 0, v.mismatch(KindFloat)
	}
}

// Bool returns the boolean variant. KindNone yields false.
func (v Value) Bool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.num != 0, nil
	case KindNone:
		return false, nil
	default:
		return false, v.mismatch(KindBool)
	}
}

// String returns the text variant. KindNone yields "".
func (v Value) String() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindNone:
		return "", nil
	default:
		return "", v.mismatch(KindString)
	}
}

// Point returns the Point3F variant. KindNone yields the origin.
func (v Value) Point() (Point3F, error) {
	switch v.kind {
	case KindPoint:
		return v.p, nil
	case KindNone:
		return Point3F{}, nil
	default:
		return Point3F{}, v.mismatch(KindPoint)
	}
}

// Time returns the timestamp variant. KindNone yields the Unix epoch.
func (v Value) Time() (time.Time, error) {
	switch v.kind {
	case KindTime:
		return v.t, nil
	case KindNone:
		return time.Unix(0, 0).UTC(), nil
	default:
		return time.Time{}, v.mismatch(KindTime)
	}
}

// List returns the sequence variant. KindNone yields an empty list.
func (v Value) List() ([]Value, error) {
	switch v.kind {
	case KindList:
		return v.list, nil
	case KindNone:
		return nil, nil
	default:
		return nil, v.mismatch(KindList)
	}
}

// Record returns the nested bag variant. KindNone yields nil.
func (v Value) Record() (*Bag, error) {
	switch v.kind {
	case KindRecord:
		return v.rec, nil
	case KindNone:
		return nil, nil
	default:
		return nil, v.mismatch(KindRecord)
	}
}
