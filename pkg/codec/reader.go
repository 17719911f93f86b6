package codec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// reader is the sequential decode cursor. Field lengths for variable-width
// types are only known by decoding in order, so all reads go through here;
// there is no random access.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// take returns the next n bytes and advances the cursor. Running past the end
// of the buffer is fatal and reported as an unexpected EOF.
func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("read %d bytes at offset %d of %d: %w",
			n, r.pos, len(r.buf), io.ErrUnexpectedEOF)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// remaining reports how many bytes are left past the cursor.
func (r *reader) remaining() int { return len(r.buf) - r.pos }
