package avoidance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/evade/internal/core/systems/physics"
)

func TestField(t *testing.T) {
	f := NewField(0, 0, physics.ShapeBox)
	require.Equal(t, float64(DefaultMinResolution), f.MinResolution)
	require.Equal(t, float64(DefaultMaxFrames), f.MaxFrames)

	region, size := physics.V(0, 0), physics.V(64, 64)

	t.Run("QuietRegionIsOneCell", func(t *testing.T) {
		cells := f.Cells(region, size, physics.Vec2{}, nil).Collect()
		require.Equal(t, []Cell{{Pos: region, Size: size, Intensity: DefaultMaxFrames}}, cells)

		away := []Hazard{{Shape: physics.Box(2, 2), Pos: physics.V(200, 0), Vel: physics.V(3, 0)}}
		require.Len(t, f.Cells(region, size, physics.Vec2{}, away).Collect(), 1)
	})

	t.Run("RefinesAroundHazard", func(t *testing.T) {
		static := []Hazard{{Shape: physics.Box(2, 2), Pos: physics.V(1, 1)}}
		cells := f.Cells(region, size, physics.Vec2{}, static).Collect()
		require.Len(t, cells, 10)

		area := 0.0
		hot := 0
		for _, c := range cells {
			area += c.Size.X * c.Size.Y
			require.LessOrEqual(t, c.Intensity, f.MaxFrames)
			require.GreaterOrEqual(t, c.Intensity, 0.0)
			if c.Intensity == 0 {
				hot++
				require.Equal(t, physics.V(0, 0), c.Pos)
				require.Equal(t, physics.V(8, 8), c.Size)
			}
		}
		require.Equal(t, 64.0*64.0, area)
		require.Equal(t, 1, hot)
	})

	t.Run("IntensityIsClampedTime", func(t *testing.T) {
		incoming := []Hazard{{Shape: physics.Box(8, 8), Pos: physics.V(0, -108), Vel: physics.V(0, 1)}}
		cells := f.Cells(physics.V(0, 0), physics.V(8, 8), physics.Vec2{}, incoming).Collect()
		require.Len(t, cells, 1)
		require.InDelta(t, 100.0, cells[0].Intensity, 1e-9)

		slow := []Hazard{{Shape: physics.Box(8, 8), Pos: physics.V(0, -1008), Vel: physics.V(0, 1)}}
		cells = f.Cells(physics.V(0, 0), physics.V(8, 8), physics.Vec2{}, slow).Collect()
		require.Equal(t, f.MaxFrames, cells[0].Intensity)
	})

	t.Run("HitShape", func(t *testing.T) {
		// a small circle heading for the node's corner: the boxes touch
		// before the node's inscribed circle is reached
		corner := []Hazard{{Shape: physics.Circle(1), Pos: physics.V(-10, -10), Vel: physics.V(1, 1)}}
		node, nodeSize := physics.V(0, 0), physics.V(8, 8)

		boxes := f.Cells(node, nodeSize, physics.Vec2{}, corner).Collect()
		require.Len(t, boxes, 1)
		require.InDelta(t, 9.0, boxes[0].Intensity, 1e-9)

		circles := NewField(8, 0, physics.ShapeCircle).Cells(node, nodeSize, physics.Vec2{}, corner).Collect()
		require.Len(t, circles, 1)
		require.InDelta(t, 14-5/math.Sqrt2, circles[0].Intensity, 1e-6)
	})

	t.Run("EarlyStop", func(t *testing.T) {
		static := []Hazard{{Shape: physics.Box(2, 2), Pos: physics.V(1, 1)}}
		require.Len(t, f.Cells(region, size, physics.Vec2{}, static).Take(2).Collect(), 2)
	})

	t.Run("Deterministic", func(t *testing.T) {
		_, hazards := overhead()
		a := f.Cells(physics.V(-32, -32), size, physics.V(1, 0), hazards).Collect()
		b := f.Cells(physics.V(-32, -32), size, physics.V(1, 0), hazards).Collect()
		require.Equal(t, a, b)
		require.NotEmpty(t, a)
	})
}
