// stand for bytes helper
package bx

import (
	"encoding/binary"
	"errors"
)

var LE = binary.LittleEndian

var ErrShortBuffer = errors.New("bx: short buffer")

// --- LE: append ---
func AppendU16(b []byte, v uint16) []byte { return LE.AppendUint16(b, v) }
func AppendU32(b []byte, v uint32) []byte { return LE.AppendUint32(b, v) }
func AppendU64(b []byte, v uint64) []byte { return LE.AppendUint64(b, v) }

// AppendBytes writes a u32 length prefix followed by p. Callers must keep
// len(p) within math.MaxUint32.
func AppendBytes(b []byte, p []byte) []byte {
	b = AppendU32(b, uint32(len(p)))
	return append(b, p...)
}

// Reader is a bounds-checked little-endian cursor over a byte slice.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) Offset() int    { return r.off }
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Next returns the next n bytes without copying them.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrShortBuffer
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

func (r *Reader) U8() (uint8, error) {
	p, err := r.Next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) U16() (uint16, error) {
	p, err := r.Next(2)
	if err != nil {
		return 0, err
	}
	return LE.Uint16(p), nil
}

func (r *Reader) U32() (uint32, error) {
	p, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return LE.Uint32(p), nil
}

func (r *Reader) U64() (uint64, error) {
	p, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return LE.Uint64(p), nil
}

// Bytes reads a u32 length-prefixed slice and returns a copy of it, so the
// result never aliases the underlying buffer.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	p, err := r.Next(int(n))
	if err != nil {
		return nil, err
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	return cp, nil
}
