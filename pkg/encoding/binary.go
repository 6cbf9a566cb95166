package encoding

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer writes little-endian scalars. The first error sticks; later writes
// are no-ops and Err reports it.
type Writer struct {
	w   io.Writer
	buf [4]byte
	n   int64
	err error
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	w.err = err
}

func (w *Writer) Int32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[:], uint32(v))
	w.write(w.buf[:4])
}

func (w *Writer) Float32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[:], math.Float32bits(v))
	w.write(w.buf[:4])
}

func (w *Writer) Uint8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

// N is the number of bytes written so far.
func (w *Writer) N() int64   { return w.n }
func (w *Writer) Err() error { return w.err }

// Reader reads little-endian scalars with the same sticky-error rule as
// Writer. A short read reports io.ErrUnexpectedEOF, except when no byte of
// the value was available, which reports io.EOF.
type Reader struct {
	r   io.Reader
	buf [4]byte
	n   int64
	err error
}

func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

func (r *Reader) read(b []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, b)
	r.n += int64(n)
	r.err = err
	return err == nil
}

func (r *Reader) Int32() int32 {
	if !r.read(r.buf[:4]) {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(r.buf[:]))
}

func (r *Reader) Float32() float32 {
	if !r.read(r.buf[:4]) {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(r.buf[:]))
}

func (r *Reader) Uint8() uint8 {
	if !r.read(r.buf[:1]) {
		return 0
	}
	return r.buf[0]
}

// N is the number of bytes consumed so far.
func (r *Reader) N() int64   { return r.n }
func (r *Reader) Err() error { return r.err }
