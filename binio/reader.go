package binio

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Reader decodes little-endian values from an underlying stream.
type Reader struct {
	r   io.Reader
	off int64
	err error
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered. Running past the end of the stream
// is reported as io.ErrUnexpectedEOF.
func (r *Reader) Err() error {
	return r.err
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.off
}

func (r *Reader) fail(err error, what string, n int) {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	r.err = errors.Wrapf(err, "reading %s (%d bytes) at offset %d", what, n, r.off)
}

func (r *Reader) fill(p []byte, what string) bool {
	if r.err != nil {
		for i := range p {
			p[i] = 0
		}
		return false
	}
	n, err := io.ReadFull(r.r, p)
	r.off += int64(n)
	if err != nil {
		r.fail(err, what, len(p))
		for i := range p {
			p[i] = 0
		}
		return false
	}
	return true
}

// Byte reads one byte.
func (r *Reader) Byte() byte {
	var b [1]byte
	r.fill(b[:], "byte")
	return b[0]
}

// Int16 reads a signed 16-bit integer.
func (r *Reader) Int16() int16 {
	var b [2]byte
	r.fill(b[:], "int16")
	return int16(binary.LittleEndian.Uint16(b[:]))
}

// Int32 reads a signed 32-bit integer.
func (r *Reader) Int32() int32 {
	var b [4]byte
	r.fill(b[:], "int32")
	return int32(binary.LittleEndian.Uint32(b[:]))
}

// Uint32 reads an unsigned 32-bit integer.
func (r *Reader) Uint32() uint32 {
	var b [4]byte
	r.fill(b[:], "uint32")
	return binary.LittleEndian.Uint32(b[:])
}

// Struct reads a fixed-size struct with binary.Read. Blank fields are
// consumed and discarded, which suits reserved record members.
func (r *Reader) Struct(v interface{}) {
	if r.err != nil {
		return
	}
	size := binary.Size(v)
	if size < 0 {
		r.err = errors.Errorf("cannot read %T as a fixed-size record", v)
		return
	}
	b := make([]byte, size)
	if !r.fill(b, "record") {
		return
	}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, v); err != nil {
		r.fail(err, "record", size)
	}
}

// Bytes reads exactly n bytes. A negative n is a format problem of the
// caller's data and is reported as an error rather than a panic.
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.err = errors.Errorf("negative byte count %d at offset %d", n, r.off)
		return nil
	}
	// Do not trust n for an up-front allocation; it may come from a
	// corrupted length field.
	buf := bytes.Buffer{}
	got, err := buf.ReadFrom(io.LimitReader(r.r, int64(n)))
	r.off += got
	if err != nil {
		r.fail(err, "bytes", n)
		return nil
	}
	if got != int64(n) {
		r.fail(io.ErrUnexpectedEOF, "bytes", n)
		return nil
	}
	return buf.Bytes()
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) {
	if n <= 0 || r.err != nil {
		return
	}
	got, err := io.CopyN(io.Discard, r.r, int64(n))
	r.off += got
	if err != nil {
		r.fail(err, "padding", n)
	}
}

// NullTerminated reads bytes up to and including a zero byte, returning them
// without the terminator.
//
// With fixed > 0 the string occupies a field of exactly fixed bytes: reading
// stops after fixed bytes even if no terminator was seen, and whatever remains
// of the field after the terminator is skipped.
func (r *Reader) NullTerminated(fixed int) []byte {
	out := make([]byte, 0, 32)
	left := fixed
	for r.err == nil {
		c := r.Byte()
		if r.err != nil || c == 0 {
			break
		}
		out = append(out, c)
		left--
		if fixed > 0 && left < 1 {
			break
		}
	}
	if left > 0 {
		r.Skip(left - 1)
	}
	glog.V(3).Infof("binio: string %q (field %d) ends at %d", out, fixed, r.off)
	return out
}

// LongTerminated reads a 32-bit byte count, that many bytes, and the trailing
// zero byte.
func (r *Reader) LongTerminated() []byte {
	n := r.Int32()
	if r.err != nil {
		return nil
	}
	b := r.Bytes(int(n))
	r.Byte()
	return b
}

// OptionalUint32 reads an unsigned 32-bit integer that may be missing because
// the stream ended cleanly right before it. ok is false in that case and no
// error is recorded; a partial value is still an error.
func (r *Reader) OptionalUint32() (v uint32, ok bool) {
	if r.err != nil {
		return 0, false
	}
	var b [4]byte
	n, err := io.ReadFull(r.r, b[:])
	r.off += int64(n)
	if err == io.EOF {
		return 0, false
	}
	if err != nil {
		r.fail(err, "uint32", len(b))
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[:]), true
}
