package packet

import (
	"encoding/binary"
	"math"
)

// Writer builds a little-endian packet payload, opcode first.
type Writer struct {
	buf []byte
}

func NewWriterWithOpcode(opcode byte) *Writer {
	w := &Writer{buf: make([]byte, 0, 32)}
	w.WriteC(opcode)
	return w
}

// WriteC appends one byte.
func (w *Writer) WriteC(v byte) {
	w.buf = append(w.buf, v)
}

// WriteH appends a 2-byte little-endian value.
func (w *Writer) WriteH(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteD appends a 4-byte little-endian signed value.
func (w *Writer) WriteD(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

// WriteF appends an 8-byte little-endian IEEE 754 double.
func (w *Writer) WriteF(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// WriteS appends a NUL-terminated UTF-8 string.
func (w *Writer) WriteS(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// Bytes returns the encoded payload (opcode + body).
func (w *Writer) Bytes() []byte {
	return w.buf
}
