package binio

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Writer encodes little-endian values to an underlying stream.
type Writer struct {
	w   io.Writer
	off int64
	err error
}

// NewWriter returns a Writer producing into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.off
}

func (w *Writer) put(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	w.off += int64(n)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = errors.Wrapf(err, "writing %d bytes at offset %d", len(p), w.off)
	}
}

// Byte writes one byte.
func (w *Writer) Byte(v byte) {
	w.put([]byte{v})
}

// Int16 writes a signed 16-bit integer.
func (w *Writer) Int16(v int16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	w.put(b[:])
}

// Int32 writes a signed 32-bit integer.
func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.put(b[:])
}

// Uint32 writes an unsigned 32-bit integer.
func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.put(b[:])
}

// Struct writes a fixed-size struct; blank fields are written as zeros.
func (w *Writer) Struct(v interface{}) {
	if w.err != nil {
		return
	}
	size := binary.Size(v)
	if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
		w.err = errors.Wrapf(err, "writing record at offset %d", w.off)
		return
	}
	w.off += int64(size)
}

// Bytes writes b verbatim.
func (w *Writer) Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	w.put(b)
}

// Zeros writes n zero bytes. Four zeros go out as a single 32-bit zero.
func (w *Writer) Zeros(n int) {
	if n == 4 {
		w.Int32(0)
		return
	}
	if n > 0 {
		w.put(make([]byte, n))
	}
}

// StringTerminated writes b followed by a zero byte.
func (w *Writer) StringTerminated(b []byte) {
	w.Bytes(b)
	w.Byte(0)
}

// LongTerminated writes the 32-bit length of b, b itself and a zero byte.
func (w *Writer) LongTerminated(b []byte) {
	w.Int32(int32(len(b)))
	w.StringTerminated(b)
}

// Fixed writes b into a field of exactly width bytes, truncating b or padding
// it with zeros.
func (w *Writer) Fixed(b []byte, width int) {
	if len(b) > width {
		b = b[:width]
	}
	w.Bytes(b)
	w.Zeros(width - len(b))
}
