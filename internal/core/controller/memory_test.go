package controller

import (
	"math"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/systems/physics"
)

func frames(recs []DecisionRecord) []uint64 {
	out := make([]uint64, len(recs))
	for i, r := range recs {
		out[i] = r.Frame
	}
	return out
}

func TestMemory(t *testing.T) {
	t.Run("DropsOldest", func(t *testing.T) {
		m := NewMemory(3)
		for i := 0; i < 5; i++ {
			m.AppendDecision(DecisionRecord{Frame: uint64(i)})
		}
		require.Equal(t, []uint64{2, 3, 4}, frames(m.History()))
		last, ok := m.Last()
		require.True(t, ok)
		require.Equal(t, uint64(4), last.Frame)
	})

	t.Run("WrapsRepeatedly", func(t *testing.T) {
		m := NewMemory(4)
		for i := 0; i < 23; i++ {
			m.AppendDecision(DecisionRecord{Frame: uint64(i)})
			if i == 9 {
				require.Equal(t, []uint64{6, 7, 8, 9}, frames(m.History()))
			}
		}
		require.Equal(t, []uint64{19, 20, 21, 22}, frames(m.History()))
		last, ok := m.Last()
		require.True(t, ok)
		require.Equal(t, uint64(22), last.Frame)

		b, err := m.Save()
		require.NoError(t, err)
		other := NewMemory(4)
		require.NoError(t, other.Load(b))
		require.Equal(t, m.History(), other.History())
		other.AppendDecision(DecisionRecord{Frame: 23})
		require.Equal(t, []uint64{20, 21, 22, 23}, frames(other.History()))

		m.Reset()
		_, ok = m.Last()
		require.False(t, ok)
		m.AppendDecision(DecisionRecord{Frame: 30})
		require.Equal(t, []uint64{30}, frames(m.History()))
	})

	t.Run("HistoryIsACopy", func(t *testing.T) {
		m := NewMemory(0)
		m.AppendDecision(DecisionRecord{Frame: 1})
		h := m.History()
		h[0].Frame = 99
		require.Equal(t, []uint64{1}, frames(m.History()))
	})

	t.Run("SaveLoad", func(t *testing.T) {
		m := NewMemory(10)
		m.AppendDecision(DecisionRecord{Frame: 1, Index: avoidance.Right, Time: math.Inf(1), Direction: "right"})
		m.AppendDecision(DecisionRecord{Frame: 2, Index: avoidance.Hold, Time: 4.5})
		b, err := m.Save()
		require.NoError(t, err)

		small := NewMemory(1)
		require.NoError(t, small.Load(b))
		require.Equal(t, []uint64{2}, frames(small.History()))

		big := NewMemory(10)
		require.NoError(t, big.Load(b))
		require.Equal(t, m.History(), big.History())
		require.True(t, math.IsInf(big.History()[0].Time, 1))

		require.Error(t, big.Load([]byte{0xff, 0x00}))
	})

	t.Run("Reset", func(t *testing.T) {
		m := NewMemory(4)
		m.AppendDecision(DecisionRecord{})
		m.Reset()
		require.Empty(t, m.History())
		_, ok := m.Last()
		require.False(t, ok)
	})
}

func TestFingerprint(t *testing.T) {
	a := []avoidance.Hazard{
		{Shape: physics.Box(4, 4), Pos: physics.V(1, 2), Vel: physics.V(0, 3)},
		{Shape: physics.Circle(2), Pos: physics.V(-5, 7), Vel: physics.V(1, 1)},
	}
	b := []avoidance.Hazard{a[0], a[1]}

	require.Equal(t, Fingerprint(a), Fingerprint(b))
	require.Equal(t, xxhash.Sum64(nil), Fingerprint(nil))

	b[1].Vel = physics.V(1, 1.0000001)
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))

	swapped := []avoidance.Hazard{a[1], a[0]}
	require.NotEqual(t, Fingerprint(a), Fingerprint(swapped))
}
