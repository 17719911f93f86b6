package codec

import "fmt"

// Compact integer encoding: a signed 32-bit integer packed into 1, 2, 4, or
// 5 bytes. The top bits of the leading byte tag the magnitude tier and sign:
//
//	magnitude < 0x40        1 byte   00mmmmmm / 01mmmmmm
//	magnitude < 0x2000      2 bytes  100mmmmm mm... / 101mmmmm mm...
//	magnitude < 0x10000000  4 bytes  1100mmmm mm... / 1101mmmm mm...
//	otherwise               5 bytes  0xE0 / 0xF0 then raw 4-byte magnitude
//
// Multi-byte tiers are stored big-endian so the tag byte always leads the
// stream and the decoder can classify the tier from the first byte read. The
// legacy little-endian layout would put the tag byte last for the 2- and
// 4-byte tiers, which its own decoder could not have classified; storing the
// tagged word big-endian is the deliberate resolution.

const (
	compactTier1Max = 0x40
	compactTier2Max = 0x2000
	compactTier4Max = 0x10000000
)

// AppendCompactInt appends the compact encoding of v to dst.
func AppendCompactInt(dst []byte, v int32) []byte {
	neg := v < 0
	mag := uint32(v)
	if neg {
		mag = uint32(-int64(v))
	}
	switch {
	case mag < compactTier1Max:
		b := byte(mag)
		if neg {
			b |= 0x40
		}
		return append(dst, b)
	case mag < compactTier2Max:
		word := uint16(mag) | 0x8000
		if neg {
			word |= 0x2000
		}
		return append(dst, byte(word>>8), byte(word))
	case mag < compactTier4Max:
		word := mag | 0xC0000000
		if neg {
			word |= 0x10000000
		}
		return append(dst, byte(word>>24), byte(word>>16), byte(word>>8), byte(word))
	default:
		tag := byte(0xE0)
		if neg {
			tag = 0xF0
		}
		return append(dst, tag, byte(mag>>24), byte(mag>>16), byte(mag>>8), byte(mag))
	}
}

// readCompactInt decodes one compact integer from the cursor.
func readCompactInt(r *reader) (int32, error) {
	b0, err := r.byte()
	if err != nil {
		return 0, err
	}
	var (
		mag uint32
		neg bool
	)
	switch {
	case b0&0x80 == 0:
		neg = b0&0x40 != 0
		mag = uint32(b0 & 0x3F)
	case b0>>4 <= 0xB: // 0x8..0xB: two-byte tier
		b1, err := r.byte()
		if err != nil {
			return 0, err
		}
		word := uint16(b0)<<8 | uint16(b1)
		neg = word&0x2000 != 0
		mag = uint32(word & 0x1FFF)
	case b0>>4 <= 0xD: // 0xC..0xD: four-byte tier
		rest, err := r.take(3)
		if err != nil {
			return 0, err
		}
		word := uint32(b0)<<24 | uint32(rest[0])<<16 | uint32(rest[1])<<8 | uint32(rest[2])
		neg = word&0x10000000 != 0
		mag = word & 0x0FFFFFFF
	default: // 0xE0 / 0xF0: raw tier
		if b0 != 0xE0 && b0 != 0xF0 {
			return 0, fmt.Errorf("compact integer: invalid tag byte 0x%02X", b0)
		}
		rest, err := r.take(4)
		if err != nil {
			return 0, err
		}
		neg = b0 == 0xF0
		mag = uint32(rest[0])<<24 | uint32(rest[1])<<16 | uint32(rest[2])<<8 | uint32(rest[3])
	}
	if neg {
		return int32(-int64(mag)), nil
	}
	return int32(mag), nil
}

// DecodeCompactInt decodes a compact integer from the front of data and
// returns the value and the number of bytes consumed.
func DecodeCompactInt(data []byte) (int32, int, error) {
	r := newReader(data)
	v, err := readCompactInt(r)
	if err != nil {
		return 0, 0, err
	}
	return v, r.pos, nil
}
