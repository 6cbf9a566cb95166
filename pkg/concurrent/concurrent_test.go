package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zeusync/evade/pkg/sequence"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConcurrent(t *testing.T) {
	var sum atomic.Int64
	err := Concurrent(context.Background(), sequence.From([]int{1, 2, 3, 4, 5}), 2, func(_ context.Context, v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(15), sum.Load())
}

func TestConcurrentLimit(t *testing.T) {
	var running, peak atomic.Int32
	err := Concurrent(context.Background(), sequence.From(make([]int, 16)), 3, func(context.Context, int) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	require.LessOrEqual(t, peak.Load(), int32(3))
}

func TestConcurrentError(t *testing.T) {
	boom := errors.New("boom")
	err := Concurrent(context.Background(), sequence.From([]int{1, 2, 3}), 0, func(ctx context.Context, v int) error {
		if v == 2 {
			return boom
		}
		<-ctx.Done()
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestConcurrentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Concurrent(ctx, sequence.From([]int{1, 2}), 1, func(context.Context, int) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, calls)
}

func TestParallelMap(t *testing.T) {
	out, err := ParallelMap(context.Background(), sequence.From([]int{5, 1, 4, 2}), 2, func(_ context.Context, v int) (int, error) {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * v, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{25, 1, 16, 4}, out)

	_, err = ParallelMap(context.Background(), sequence.From([]int{1, 2}), 0, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, errors.New("bad input")
		}
		return v, nil
	})
	require.EqualError(t, err, "bad input")
}
