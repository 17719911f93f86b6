package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/mkarls/wireweave/pkg/schema"
)

func roundTripString(t *testing.T, s string, meta schema.Meta) string {
	t.Helper()
	encoded, err := appendString(nil, s, meta)
	if err != nil {
		t.Fatalf("appendString failed: %v", err)
	}
	r := newReader(encoded)
	decoded, err := readString(r, meta)
	if err != nil {
		t.Fatalf("readString failed: %v", err)
	}
	if r.remaining() != 0 {
		t.Fatalf("decoder left %d bytes unread", r.remaining())
	}
	return decoded
}

func TestString_RoundTripModes(t *testing.T) {
	testCases := []struct {
		name string
		text string
		meta schema.Meta
	}{
		{"default mode", "Hello", nil},
		{"explicit int32 prefix", "Hello", schema.Meta{"size": 4}},
		{"byte prefix", "Hello", schema.Meta{"size": 1}},
		{"ushort prefix", "Hello", schema.Meta{"size": 2}},
		{"compact prefix utf8", "Hello", schema.Meta{"size": -1, "encoding": "utf8"}},
		{"empty string", "", nil},
		{"utf8 non-ascii", "Hello 世界", schema.Meta{"encoding": "utf8"}},
		{"utf16 ascii text", "Hello", schema.Meta{"encoding": "utf16"}},
		{"utf16 non-ascii", "Hello 世界", schema.Meta{"encoding": "utf16"}},
		{"utf16 compact prefix", "Hello 世界", schema.Meta{"encoding": "utf16", "size": -1}},
		{"ascii", "Hello", schema.Meta{"encoding": "ascii"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := roundTripString(t, tc.text, tc.meta); got != tc.text {
				t.Errorf("round-trip mismatch: got %q, want %q", got, tc.text)
			}
		})
	}
}

func TestString_DefaultPrefixIsInt32(t *testing.T) {
	encoded, err := appendString(nil, "Hello", nil)
	if err != nil {
		t.Fatalf("appendString failed: %v", err)
	}
	want := append(binary.LittleEndian.AppendUint32(nil, 5), []byte("Hello")...)
	if !bytes.Equal(encoded, want) {
		t.Errorf("encoded bytes: got % X, want % X", encoded, want)
	}
}

func TestString_Utf16NullTerminator(t *testing.T) {
	meta := schema.Meta{"encoding": "utf16"}
	encoded, err := appendString(nil, "Hi", meta)
	if err != nil {
		t.Fatalf("appendString failed: %v", err)
	}
	// 4-byte prefix, two UTF-16 units, then the 2-byte terminator counted
	// inside the measured length.
	if n := binary.LittleEndian.Uint32(encoded); n != 6 {
		t.Errorf("recorded length: got %d, want 6", n)
	}
	if len(encoded) != 10 {
		t.Fatalf("total size: got %d, want 10", len(encoded))
	}
	if encoded[8] != 0 || encoded[9] != 0 {
		t.Errorf("missing trailing null pair: % X", encoded[4:])
	}
}

func TestString_AsciiSubstitutesNonAscii(t *testing.T) {
	got := roundTripString(t, "Hé", schema.Meta{"encoding": "ascii"})
	if got != "H?" {
		t.Errorf("ascii substitution: got %q, want %q", got, "H?")
	}
}

func TestString_UnsupportedOptions(t *testing.T) {
	if _, err := appendString(nil, "x", schema.Meta{"encoding": "latin1"}); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("encoding latin1: got %v, want ErrUnsupportedEncoding", err)
	}
	if _, err := appendString(nil, "x", schema.Meta{"size": 3}); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("size 3: got %v, want ErrUnsupportedSize", err)
	}
	r := newReader([]byte{1, 0, 0, 0, 'x'})
	if _, err := readString(r, schema.Meta{"size": 7}); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("decode size 7: got %v, want ErrUnsupportedSize", err)
	}
}

func TestString_PrefixOverflow(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 300)
	if _, err := appendString(nil, string(long), schema.Meta{"size": 1}); err == nil {
		t.Error("expected overflow error for 300 bytes under a 1-byte prefix")
	}
}

func TestString_Truncated(t *testing.T) {
	encoded, err := appendString(nil, "Hello", nil)
	if err != nil {
		t.Fatalf("appendString failed: %v", err)
	}
	for _, cut := range []int{0, 2, len(encoded) - 1} {
		r := newReader(encoded[:cut])
		if _, err := readString(r, nil); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("cut %d: got %v, want unexpected EOF", cut, err)
		}
	}
}
