package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/mkarls/wireweave/pkg/schema"
)

// String field metadata values.
const (
	encodingASCII = "ascii"
	encodingUTF8  = "utf8"
	encodingUTF16 = "utf16"

	// Length-prefix modes. Zero is the default and writes the same 4-byte
	// signed prefix as mode 4; -1 selects the compact integer codec.
	sizeDefault = 0
	sizeByte    = 1
	sizeUshort  = 2
	sizeInt32   = 4
	sizeCompact = -1
)

// encodeText converts s to its wire bytes under the named character
// encoding. The recorded length is always the byte length of this result,
// not the character count.
func encodeText(s, encoding string) ([]byte, error) {
	switch encoding {
	case encodingASCII:
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0x7F {
				// Matches the legacy marshaler's lossy ASCII
				// substitution.
				r = '?'
			}
			out = append(out, byte(r))
		}
		return out, nil
	case encodingUTF8:
		return []byte(s), nil
	case encodingUTF16:
		units := utf16.Encode([]rune(s))
		out := make([]byte, 0, 2*len(units)+2)
		for _, u := range units {
			out = binary.LittleEndian.AppendUint16(out, u)
		}
		// The utf16 convention carries a 2-byte null terminator inside
		// the measured payload.
		out = append(out, 0, 0)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

// decodeText converts wire bytes back to a string under the named encoding.
func decodeText(payload []byte, encoding string) (string, error) {
	switch encoding {
	case encodingASCII, encodingUTF8:
		return string(payload), nil
	case encodingUTF16:
		if len(payload) >= 2 && payload[len(payload)-2] == 0 && payload[len(payload)-1] == 0 {
			payload = payload[:len(payload)-2]
		}
		if len(payload)%2 != 0 {
			return "", fmt.Errorf("utf16 payload has odd length %d", len(payload))
		}
		units := make([]uint16, len(payload)/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(payload[2*i:])
		}
		return string(utf16.Decode(units)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

// appendString encodes a string field: length prefix per the size mode, then
// the encoded payload.
func appendString(dst []byte, s string, meta schema.Meta) ([]byte, error) {
	encoding := meta.String(schema.MetaEncoding, encodingUTF8)
	payload, err := encodeText(s, encoding)
	if err != nil {
		return nil, err
	}
	switch meta.Int(schema.MetaSize, sizeDefault) {
	case sizeDefault, sizeInt32:
		dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(len(payload))))
	case sizeByte:
		if len(payload) > 0xFF {
			return nil, fmt.Errorf("string payload of %d bytes exceeds 1-byte length prefix", len(payload))
		}
		dst = append(dst, byte(len(payload)))
	case sizeUshort:
		if len(payload) > 0xFFFF {
			return nil, fmt.Errorf("string payload of %d bytes exceeds 2-byte length prefix", len(payload))
		}
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(payload)))
	case sizeCompact:
		dst = AppendCompactInt(dst, int32(len(payload)))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSize, meta.Int(schema.MetaSize, sizeDefault))
	}
	return append(dst, payload...), nil
}

// readString decodes a string field from the cursor.
func readString(r *reader, meta schema.Meta) (string, error) {
	var n int
	switch size := meta.Int(schema.MetaSize, sizeDefault); size {
	case sizeDefault, sizeInt32:
		raw, err := r.uint32()
		if err != nil {
			return "", err
		}
		n = int(int32(raw))
	case sizeByte:
		b, err := r.byte()
		if err != nil {
			return "", err
		}
		n = int(b)
	case sizeUshort:
		u, err := r.uint16()
		if err != nil {
			return "", err
		}
		n = int(u)
	case sizeCompact:
		v, err := readCompactInt(r)
		if err != nil {
			return "", err
		}
		n = int(v)
	default:
		return "", fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	if n < 0 {
		return "", fmt.Errorf("negative string length %d", n)
	}
	payload, err := r.take(n)
	if err != nil {
		return "", err
	}
	return decodeText(payload, meta.String(schema.MetaEncoding, encodingUTF8))
}
