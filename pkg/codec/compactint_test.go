package codec

import (
	"errors"
	"io"
	"testing"
)

func TestCompactInt_RoundTripTiers(t *testing.T) {
	testCases := []struct {
		name  string
		value int32
		width int
	}{
		{"zero", 0, 1},
		{"one", 1, 1},
		{"tier1 max", 63, 1},
		{"tier1 max negative", -63, 1},
		{"tier2 min", 64, 2},
		{"tier2 min negative", -64, 2},
		{"tier2 max", 8191, 2},
		{"tier2 max negative", -8191, 2},
		{"tier4 min", 8192, 4},
		{"tier4 min negative", -8192, 4},
		{"tier4 max", 0x0FFFFFFF, 4},
		{"tier4 max negative", -0x0FFFFFFF, 4},
		{"tier5 min", 0x10000000, 5},
		{"tier5 min negative", -0x10000000, 5},
		{"int32 max", 2147483647, 5},
		{"int32 min", -2147483648, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := AppendCompactInt(nil, tc.value)
			if len(encoded) != tc.width {
				t.Fatalf("encoded width: got %d, want %d", len(encoded), tc.width)
			}

			decoded, n, err := DecodeCompactInt(encoded)
			if err != nil {
				t.Fatalf("DecodeCompactInt failed: %v", err)
			}
			if n != len(encoded) {
				t.Errorf("consumed %d bytes, want %d", n, len(encoded))
			}
			if decoded != tc.value {
				t.Errorf("round-trip mismatch: got %d, want %d", decoded, tc.value)
			}
		})
	}
}

// The multi-byte tiers store the tagged word big-endian so the tag byte leads
// the stream. These vectors pin that decision.
func TestCompactInt_TagByteLeads(t *testing.T) {
	testCases := []struct {
		value int32
		first byte
	}{
		{0, 0x00},
		{-1, 0x41},
		{64, 0x80},
		{-64, 0xA0},
		{8191, 0x9F},
		{8192, 0xC0},
		{-8192, 0xD0},
		{0x10000000, 0xE0},
		{-0x10000000, 0xF0},
	}

	for _, tc := range testCases {
		encoded := AppendCompactInt(nil, tc.value)
		if encoded[0] != tc.first {
			t.Errorf("value %d: first byte 0x%02X, want 0x%02X", tc.value, encoded[0], tc.first)
		}
	}
}

func TestCompactInt_Truncated(t *testing.T) {
	for _, v := range []int32{100, 10000, 0x20000000} {
		encoded := AppendCompactInt(nil, v)
		for cut := 0; cut < len(encoded); cut++ {
			if _, _, err := DecodeCompactInt(encoded[:cut]); !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("value %d cut to %d bytes: got %v, want unexpected EOF", v, cut, err)
			}
		}
	}
}

func TestCompactInt_InvalidTag(t *testing.T) {
	// 0xE1 and 0xF7 fall in the raw tier's nibble range but are not the
	// exact raw-tier tags.
	for _, b := range []byte{0xE1, 0xF7} {
		if _, _, err := DecodeCompactInt([]byte{b, 0, 0, 0, 0}); err == nil {
			t.Errorf("tag 0x%02X: expected error", b)
		}
	}
}
