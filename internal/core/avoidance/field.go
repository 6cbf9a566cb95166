package avoidance

import (
	"math"

	"github.com/zeusync/evade/internal/core/systems/physics"
	"github.com/zeusync/evade/pkg/sequence"
)

const (
	DefaultMinResolution = 8
	DefaultMaxFrames     = 200
)

// Cell is one emitted region of the threat field. Intensity is the predicted
// collision time clamped to the field's MaxFrames; MaxFrames means no
// meaningful threat.
type Cell struct {
	Pos       physics.Vec2
	Size      physics.Vec2
	Intensity float64
}

// Field samples collision times over a region with a quadtree. Every node is
// a box moving at the agent's actual velocity.
type Field struct {
	MinResolution float64
	MaxFrames     float64
	predictor     Predictor
}

// NewField builds a field whose nodes are tested with the same hit shape as
// the selector.
func NewField(minResolution, maxFrames float64, hitShape physics.ShapeKind) Field {
	if minResolution <= 0 {
		minResolution = DefaultMinResolution
	}
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	return Field{
		MinResolution: minResolution,
		MaxFrames:     maxFrames,
		predictor:     Predictor{HitShape: hitShape},
	}
}

// Cells lazily yields the cells covering the region (pos, size). A node is
// split into quadrants only while some hazard reaches it within MaxFrames and
// it is larger than MinResolution; children only test those hazards.
// Stopping the iteration stops the recursion.
func (f Field) Cells(pos, size, vel physics.Vec2, hazards []Hazard) *sequence.Iterator[Cell] {
	return sequence.FromSeq(func(yield func(Cell) bool) {
		f.walk(pos, size, vel, hazards, yield)
	})
}

func (f Field) walk(pos, size, vel physics.Vec2, hazards []Hazard, yield func(Cell) bool) bool {
	node := Agent{Shape: physics.Box(size.X, size.Y), Pos: pos}

	best := math.Inf(1)
	var near []Hazard
	for i := range hazards {
		t := f.predictor.TimeTo(node, vel, hazards[i])
		if t < f.MaxFrames {
			near = append(near, hazards[i])
		}
		best = math.Min(best, t)
	}

	if len(near) == 0 || (size.X <= f.MinResolution && size.Y <= f.MinResolution) {
		return yield(Cell{Pos: pos, Size: size, Intensity: math.Min(best, f.MaxFrames)})
	}

	half := size.Scale(0.5)
	quads := [4]physics.Vec2{
		pos,
		pos.Add(physics.V(half.X, 0)),
		pos.Add(physics.V(0, half.Y)),
		pos.Add(half),
	}
	for _, q := range quads {
		if !f.walk(q, half, vel, near, yield) {
			return false
		}
	}
	return true
}
