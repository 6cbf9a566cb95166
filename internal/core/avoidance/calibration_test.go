package avoidance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/evade/internal/core/systems/physics"
)

func TestCalibrator(t *testing.T) {
	t.Run("TwoWindows", func(t *testing.T) {
		c := NewCalibrator(3)
		c.Begin(physics.V(0, 0))
		require.Equal(t, PhaseNormal, c.Phase())
		require.Equal(t, Right, c.Phase().Drive())

		require.False(t, c.Tick(physics.V(2, 0)))
		require.False(t, c.Tick(physics.V(4, 0)))
		require.False(t, c.Tick(physics.V(6, 0)))
		require.Equal(t, PhaseFocused, c.Phase())
		require.Equal(t, FocusedLeft, c.Phase().Drive())

		require.False(t, c.Tick(physics.V(5, 0)))
		require.False(t, c.Tick(physics.V(4, 0)))
		require.True(t, c.Tick(physics.V(3, 0)))
		require.True(t, c.Done())
		require.Equal(t, Hold, c.Phase().Drive())

		want := Speeds{Normal: 2, Focused: 1}
		require.Equal(t, want, c.Speeds())
	})

	t.Run("FrozenOnceDone", func(t *testing.T) {
		c := NewCalibrator(1)
		c.Begin(physics.V(0, 0))
		require.False(t, c.Tick(physics.V(0, 3)))
		require.True(t, c.Tick(physics.V(0, 4)))
		frozen := c.Speeds()
		for i := 0; i < 10; i++ {
			require.True(t, c.Tick(physics.V(float64(i)*100, 0)))
		}
		require.Equal(t, frozen, c.Speeds())
		require.Equal(t, Speeds{Normal: 3, Focused: 1}, frozen)
	})

	t.Run("NoMotionRestarts", func(t *testing.T) {
		c := NewCalibrator(2)
		c.Begin(physics.V(7, 7))
		for i := 0; i < 20; i++ {
			require.False(t, c.Tick(physics.V(7, 7)))
		}
		require.Equal(t, PhaseNormal, c.Phase())
		require.Equal(t, 10, c.Restarts())
		require.Equal(t, Speeds{}, c.Speeds())
	})

	t.Run("NaNPositionRestarts", func(t *testing.T) {
		c := NewCalibrator(1)
		c.Begin(physics.V(0, 0))
		require.False(t, c.Tick(physics.V(nan(), 0)))
		require.Equal(t, 1, c.Restarts())
	})

	t.Run("DefaultFrames", func(t *testing.T) {
		c := NewCalibrator(0)
		c.Begin(physics.V(0, 0))
		for i := 1; i < DefaultCalibrationFrames; i++ {
			require.False(t, c.Tick(physics.V(float64(i), 0)))
			require.Equal(t, PhaseNormal, c.Phase())
		}
		c.Tick(physics.V(DefaultCalibrationFrames, 0))
		require.Equal(t, PhaseFocused, c.Phase())
		require.InDelta(t, 1.0, c.Speeds().Normal, 1e-12)
	})

	t.Run("BeginResets", func(t *testing.T) {
		c := NewCalibrator(1)
		c.Begin(physics.V(0, 0))
		c.Tick(physics.V(1, 0))
		c.Tick(physics.V(2, 0))
		require.True(t, c.Done())
		c.Begin(physics.V(0, 0))
		require.False(t, c.Done())
		require.Equal(t, Speeds{}, c.Speeds())
	})

	t.Run("PhaseNames", func(t *testing.T) {
		require.Equal(t, "focused", PhaseFocused.String())
		require.Equal(t, "unknown", Phase(9).String())
	})
}
