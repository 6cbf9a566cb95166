package recording

import (
	"bytes"
	"context"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/systems/physics"
)

func sampleFrames() []Frame {
	return []Frame{
		{Keys: input.MaskSlow},
		{
			Samples: []Sample{
				{Pos: physics.V(1.5, -2), Vel: physics.V(0, 0.25)},
				{Pos: physics.V(-64, 32), Vel: physics.V(-1, 1)},
			},
			Keys: input.MaskUp | input.MaskLeft,
		},
		{
			Samples: []Sample{{Pos: physics.V(0.5, 0.5), Vel: physics.V(2, 2)}},
			Keys:    input.MaskRight | input.MaskSlow,
		},
	}
}

func TestFrameLayout(t *testing.T) {
	f := Frame{
		Samples: []Sample{{Pos: physics.V(1, 2), Vel: physics.V(-1, 0.5)}},
		Keys:    input.MaskDown,
	}
	b, err := f.Serialize()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x80, 0x3F,
		0x00, 0x00, 0x00, 0x40,
		0x00, 0x00, 0x80, 0xBF,
		0x00, 0x00, 0x00, 0x3F,
		0x40,
	}, b)
	require.Len(t, b, f.Size())

	empty := Frame{Keys: input.MaskShot}
	b, err = empty.Serialize()
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0x01}, b)
}

func TestRoundTrip(t *testing.T) {
	frames := sampleFrames()
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, frames))

	got, err := ReadAll(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(frames, got); diff != "" {
		t.Fatalf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderNext(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, f := range sampleFrames() {
		require.NoError(t, w.Write(&f))
	}
	require.NoError(t, w.Flush())
	require.Equal(t, 3, w.Frames())

	r := NewReader(&buf)
	for i := 0; i < 3; i++ {
		f, err := r.Next()
		require.NoError(t, err)
		Release(f)
	}
	_, err := r.Next()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 3, r.Frames())

	_, err = ReadAll(bytes.NewReader(nil))
	require.NoError(t, err, "an empty stream is a valid recording")
}

func TestTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, sampleFrames()[1:2]))
	whole := buf.Bytes()

	// every strict prefix except the empty one is a broken frame
	for cut := 1; cut < len(whole); cut++ {
		frames, err := ReadAll(bytes.NewReader(whole[:cut]))
		require.ErrorIs(t, err, ErrTruncated, "cut at %d", cut)
		require.Empty(t, frames)
	}

	// a good frame followed by garbage keeps the good frame
	var two bytes.Buffer
	require.NoError(t, WriteAll(&two, sampleFrames()[:1]))
	two.Write([]byte{9, 0})
	frames, err := ReadAll(&two)
	require.ErrorIs(t, err, ErrTruncated)
	require.Len(t, frames, 1)
}

func TestNegativeCount(t *testing.T) {
	_, err := ReadAll(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00}))
	require.ErrorIs(t, err, ErrNegativeCount)
}

func TestDeserialize(t *testing.T) {
	want := sampleFrames()[2]
	b, err := want.Serialize()
	require.NoError(t, err)

	var got Frame
	require.NoError(t, got.Deserialize(b))
	require.Equal(t, want, got)

	require.ErrorIs(t, got.Deserialize(append(b, 0)), ErrTrailingBytes)
	require.ErrorIs(t, got.Deserialize(nil), ErrTruncated)
}

func TestFloat32Precision(t *testing.T) {
	f := Frame{Samples: []Sample{{Pos: physics.V(math.Pi, 0.1)}}}
	b, err := f.Serialize()
	require.NoError(t, err)
	var got Frame
	require.NoError(t, got.Deserialize(b))
	require.Equal(t, float64(float32(math.Pi)), got.Samples[0].Pos.X)
	require.InDelta(t, 0.1, got.Samples[0].Pos.Y, 1e-7)
}

func TestSummarize(t *testing.T) {
	frames := append(sampleFrames(), sampleFrames()[0])
	s := Summarize(frames)
	require.Equal(t, 4, s.Frames)
	require.Equal(t, 3, s.TotalSamples)
	require.Equal(t, 2, s.MaxSamples)
	require.Equal(t, 3, s.Distinct)
	require.Equal(t, 0, s.Idle)
	require.Equal(t, 3, s.Usage(input.MaskSlow))
	require.Equal(t, 1, s.Usage(input.MaskUp))
	require.Equal(t, 1, s.Usage(input.MaskRight))
	require.Equal(t, 0, s.Usage(input.MaskBomb))
	require.Equal(t, 0, s.Usage(input.MaskUp|input.MaskLeft), "usage is per key")

	require.Equal(t, Summary{}, Summarize(nil))
}

func TestReplay(t *testing.T) {
	frames := []Frame{
		{
			Samples: []Sample{
				{Pos: physics.V(0, -30), Vel: physics.V(0, 6)},
				{},
			},
			Keys: input.MaskRight,
		},
	}
	r := NewReplay(frames, physics.Box(10, 10), physics.Box(4, 4))
	require.Equal(t, "replay", r.Name())

	var snap avoidance.Snapshot
	require.NoError(t, r.Sense(context.Background(), &snap))
	require.Equal(t, physics.V(-5, -5), snap.Agent.Pos)
	require.Len(t, snap.Hazards, 1, "zero slot skipped")
	require.Equal(t, physics.V(-2, -32), snap.Hazards[0].Pos)
	require.Equal(t, physics.V(0, 6), snap.Hazards[0].Vel)
	require.Equal(t, input.MaskRight, r.Keys())
	require.Zero(t, r.Remaining())

	require.ErrorIs(t, r.Sense(context.Background(), &snap), io.EOF)

	c := NewReplay(frames, physics.Circle(3), physics.Circle(1))
	snap = avoidance.Snapshot{}
	require.NoError(t, c.Sense(context.Background(), &snap))
	require.Equal(t, physics.Vec2{}, snap.Agent.Pos)
	require.Equal(t, physics.V(0, -30), snap.Hazards[0].Pos)
}
