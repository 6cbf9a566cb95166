package encoding

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Int32(-2)
	w.Float32(1.5)
	w.Uint8(0xA5)
	require.NoError(t, w.Err())
	require.Equal(t, int64(9), w.N())
	require.Equal(t, []byte{
		0xFE, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0xC0, 0x3F,
		0xA5,
	}, buf.Bytes())
}

func TestReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Int32(7)
	w.Float32(-0.25)
	w.Uint8(3)

	r := NewReader(&buf)
	require.Equal(t, int32(7), r.Int32())
	require.Equal(t, float32(-0.25), r.Float32())
	require.Equal(t, uint8(3), r.Uint8())
	require.NoError(t, r.Err())

	r.Uint8()
	require.ErrorIs(t, r.Err(), io.EOF)
}

func TestReaderShort(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))
	require.Zero(t, r.Int32())
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
	require.Equal(t, int64(2), r.N())

	// sticky
	require.Zero(t, r.Uint8())
	require.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
}

type failWriter struct{ after int }

func (f *failWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("disk full")
	}
	f.after--
	return len(p), nil
}

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(&failWriter{after: 1})
	w.Int32(1)
	w.Int32(2)
	w.Uint8(3)
	require.EqualError(t, w.Err(), "disk full")
	require.Equal(t, int64(4), w.N())
}
