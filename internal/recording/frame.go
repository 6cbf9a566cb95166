package recording

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/systems/physics"
	"github.com/zeusync/evade/pkg/encoding"
)

var _ encoding.Serializable = (*Frame)(nil)

// Sample is one hazard as seen from the agent: position relative to the
// agent's center and velocity in units per tick.
type Sample struct {
	Pos physics.Vec2
	Vel physics.Vec2
}

// Frame is one tick of a recording: every visible hazard and the keys held
// during the tick.
//
// On disk a frame is a little-endian int32 sample count N, then N groups of
// four float32 (px, py, vx, vy), then one mask byte. There is no header and
// no padding.
type Frame struct {
	Samples []Sample
	Keys    input.Mask
}

// Reset empties the frame and keeps its sample storage.
func (f *Frame) Reset() {
	f.Samples = f.Samples[:0]
	f.Keys = 0
}

// Size is the encoded length of the frame in bytes.
func (f *Frame) Size() int { return 4 + 16*len(f.Samples) + 1 }

func (f *Frame) encode(w *encoding.Writer) {
	w.Int32(int32(len(f.Samples)))
	for _, s := range f.Samples {
		w.Float32(float32(s.Pos.X))
		w.Float32(float32(s.Pos.Y))
		w.Float32(float32(s.Vel.X))
		w.Float32(float32(s.Vel.Y))
	}
	w.Uint8(uint8(f.Keys))
}

// decode reads one frame into f. A clean end before the count is io.EOF;
// any other short read is ErrTruncated.
func (f *Frame) decode(r *encoding.Reader) error {
	f.Reset()
	n := r.Int32()
	if err := r.Err(); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: count: %w", ErrTruncated, err)
	}
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	for i := int32(0); i < n; i++ {
		px, py := r.Float32(), r.Float32()
		vx, vy := r.Float32(), r.Float32()
		if r.Err() != nil {
			break
		}
		f.Samples = append(f.Samples, Sample{
			Pos: physics.V(float64(px), float64(py)),
			Vel: physics.V(float64(vx), float64(vy)),
		})
	}
	f.Keys = input.Mask(r.Uint8())
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: %d of %d samples: %w", ErrTruncated, len(f.Samples), n, err)
	}
	return nil
}

func (f *Frame) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(f.Size())
	w := encoding.NewWriter(&buf)
	f.encode(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize decodes exactly one frame from b.
func (f *Frame) Deserialize(b []byte) error {
	r := encoding.NewReader(bytes.NewReader(b))
	if err := f.decode(r); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty input", ErrTruncated)
		}
		return err
	}
	if r.N() != int64(len(b)) {
		return fmt.Errorf("%w: %d", ErrTrailingBytes, int64(len(b))-r.N())
	}
	return nil
}
