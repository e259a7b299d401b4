package packet

import (
	"encoding/binary"
	"math"
)

// Reader decodes a little-endian packet payload. Reads past the end of
// the buffer return zero values rather than panicking — malformed client
// packets degrade to a silently rejected request, never a crash.
type Reader struct {
	buf []byte
	off int
}

func NewReader(payload []byte) *Reader {
	return &Reader{buf: payload}
}

// ReadC reads one unsigned byte.
func (r *Reader) ReadC() byte {
	if r.off+1 > len(r.buf) {
		r.off = len(r.buf)
		return 0
	}
	v := r.buf[r.off]
	r.off++
	return v
}

// ReadH reads a 2-byte little-endian unsigned value.
func (r *Reader) ReadH() uint16 {
	if r.off+2 > len(r.buf) {
		r.off = len(r.buf)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

// ReadD reads a 4-byte little-endian signed value.
func (r *Reader) ReadD() int32 {
	if r.off+4 > len(r.buf) {
		r.off = len(r.buf)
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(r.buf[r.off:]))
	r.off += 4
	return v
}

// ReadF reads an 8-byte little-endian IEEE 754 double.
func (r *Reader) ReadF() float64 {
	if r.off+8 > len(r.buf) {
		r.off = len(r.buf)
		return 0
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(r.buf[r.off:]))
	r.off += 8
	return v
}

// ReadS reads a NUL-terminated UTF-8 string. A missing terminator
// consumes the rest of the buffer.
func (r *Reader) ReadS() string {
	start := r.off
	for r.off < len(r.buf) && r.buf[r.off] != 0 {
		r.off++
	}
	s := string(r.buf[start:r.off])
	if r.off < len(r.buf) {
		r.off++ // skip NUL
	}
	return s
}

// Remaining reports how many undecoded bytes are left.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}
