package codec

import "errors"

// Error kinds surfaced by the codec. All are fatal to the call that raised
// them; a failed Serialize or Deserialize never returns partial output.
var (
	// ErrInvalidSchema is returned when a record or bag has no field
	// collection to walk.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnsupportedType is returned when dispatch meets a type tag the
	// codec does not know.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnsupportedEncoding is returned for a string encoding outside
	// ascii/utf8/utf16.
	ErrUnsupportedEncoding = errors.New("unsupported string encoding")

	// ErrUnsupportedSize is returned for a string length-prefix size
	// outside the defined modes.
	ErrUnsupportedSize = errors.New("unsupported string size")

	// ErrUnresolvedRef is returned when a ref(...) target or reference
	// array item schema cannot be found in the registry.
	ErrUnresolvedRef = errors.New("unresolved schema reference")

	// ErrNotFixedWidth is returned by FixedLength for schemas containing
	// string, array, or reference fields, and by the reference codec when
	// a referenced sub-schema cannot be framed.
	ErrNotFixedWidth = errors.New("schema is not fixed-width")

	// ErrTypeMismatch is returned by Value accessors and by encode paths
	// when a bag holds a value of the wrong kind for its field.
	ErrTypeMismatch = errors.New("type mismatch")
)
