package recording

import (
	"bufio"
	"io"

	"github.com/zeusync/evade/pkg/encoding"
	"github.com/zeusync/evade/pkg/generic"
)

var framePool = generic.NewResetPool(
	func() *Frame { return &Frame{Samples: make([]Sample, 0, 64)} },
	(*Frame).Reset,
)

// Release hands a frame obtained from Reader.Next back to the pool. The
// frame must not be used afterwards.
func Release(f *Frame) {
	if f != nil {
		framePool.Put(f)
	}
}

// Writer appends frames to a recording.
type Writer struct {
	bw     *bufio.Writer
	enc    *encoding.Writer
	frames int
}

func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{bw: bw, enc: encoding.NewWriter(bw)}
}

// Write buffers one frame. Call Flush to push buffered frames out.
func (w *Writer) Write(f *Frame) error {
	f.encode(w.enc)
	if err := w.enc.Err(); err != nil {
		return err
	}
	w.frames++
	return nil
}

func (w *Writer) Flush() error {
	if err := w.enc.Err(); err != nil {
		return err
	}
	return w.bw.Flush()
}

// Frames is the number of frames written.
func (w *Writer) Frames() int { return w.frames }

// Reader reads frames one at a time.
type Reader struct {
	dec    *encoding.Reader
	frames int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: encoding.NewReader(bufio.NewReader(r))}
}

// Next returns the next frame, io.EOF at a clean end of input, or an error
// wrapping ErrTruncated or ErrNegativeCount. Frames come from a pool; pass
// them to Release when done.
func (r *Reader) Next() (*Frame, error) {
	f := framePool.Get()
	if err := f.decode(r.dec); err != nil {
		framePool.Put(f)
		return nil, err
	}
	r.frames++
	return f, nil
}

// Frames is the number of frames read successfully.
func (r *Reader) Frames() int { return r.frames }

// ReadAll reads every frame until io.EOF. On error it returns the frames
// read before the bad one.
func ReadAll(r io.Reader) ([]Frame, error) {
	rd := NewReader(r)
	var out []Frame
	for {
		f, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, Frame{Samples: append([]Sample(nil), f.Samples...), Keys: f.Keys})
		Release(f)
	}
}

// WriteAll writes frames to w and flushes.
func WriteAll(w io.Writer, frames []Frame) error {
	wr := NewWriter(w)
	for i := range frames {
		if err := wr.Write(&frames[i]); err != nil {
			return err
		}
	}
	return wr.Flush()
}
