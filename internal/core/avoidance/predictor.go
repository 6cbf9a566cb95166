package avoidance

import (
	"math"

	"github.com/zeusync/evade/internal/core/systems/physics"
)

// Hazard is one obstacle of the current tick's snapshot. Box positions are
// the top-left corner, circle positions the center.
type Hazard struct {
	Shape physics.Shape
	Pos   physics.Vec2
	Vel   physics.Vec2
}

// Agent is the controlled body. Its velocity is a hypothesis supplied per
// prediction.
type Agent struct {
	Shape physics.Shape
	Pos   physics.Vec2
}

// Predictor computes times to first collision. HitShape selects the solver
// for the whole run; agent and hazard shapes are converted to it.
type Predictor struct {
	HitShape physics.ShapeKind
}

// TimeTo returns the collision time between the agent moving at vel and h,
// or +Inf when they never meet. Non-finite inputs also yield +Inf.
func (p Predictor) TimeTo(a Agent, vel physics.Vec2, h Hazard) float64 {
	if !a.Pos.IsFinite() || !vel.IsFinite() || !h.Pos.IsFinite() || !h.Vel.IsFinite() {
		return math.Inf(1)
	}

	as, ap := a.Shape.As(p.HitShape, a.Pos)
	hs, hp := h.Shape.As(p.HitShape, h.Pos)
	t, ok := physics.Sweep(
		physics.Body{Shape: as, Pos: ap, Vel: vel},
		physics.Body{Shape: hs, Pos: hp, Vel: h.Vel},
	)
	if !ok || math.IsNaN(t) {
		return math.Inf(1)
	}
	return t
}

// Predict returns the minimum collision time over hazards; +Inf when the set
// is empty or nothing is ever hit.
func (p Predictor) Predict(a Agent, vel physics.Vec2, hazards []Hazard) float64 {
	best := math.Inf(1)
	for i := range hazards {
		if t := p.TimeTo(a, vel, hazards[i]); t < best {
			best = t
		}
	}
	return best
}

// PredictCollect is Predict that also appends to dst every hazard whose
// collision time equals the minimum. Nothing is appended when the minimum is
// +Inf.
func (p Predictor) PredictCollect(a Agent, vel physics.Vec2, hazards []Hazard, dst []Hazard) (float64, []Hazard) {
	base := len(dst)
	best := math.Inf(1)
	for i := range hazards {
		t := p.TimeTo(a, vel, hazards[i])
		switch {
		case t < best:
			best = t
			dst = append(dst[:base], hazards[i])
		case t == best && !math.IsInf(t, 1):
			dst = append(dst, hazards[i])
		}
	}
	return best, dst
}
