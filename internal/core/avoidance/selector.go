package avoidance

import (
	"math"

	"github.com/zeusync/evade/internal/core/systems/physics"
)

// FocusMode is the externally reported state of the focus modifier. It
// decides which candidates are eligible on a tick.
type FocusMode uint8

const (
	// FocusAny makes every candidate eligible.
	FocusAny FocusMode = iota
	// FocusUnavailable skips the focused candidates.
	FocusUnavailable
	// FocusHeld skips the normal-speed movement candidates.
	FocusHeld
)

func (m FocusMode) String() string {
	switch m {
	case FocusAny:
		return "any"
	case FocusUnavailable:
		return "unavailable"
	case FocusHeld:
		return "held"
	default:
		return "unknown"
	}
}

// Allows reports whether candidate i of t is eligible. Hold always is.
func (m FocusMode) Allows(t *Directions, i int) bool {
	if i == Hold {
		return true
	}
	if i < 0 || i >= DirectionCount {
		return false
	}
	switch m {
	case FocusUnavailable:
		return !t[i].Focused
	case FocusHeld:
		return t[i].Focused
	default:
		return true
	}
}

// Choice is the selected candidate and its predicted collision time.
type Choice struct {
	Index int
	Time  float64
}

// Selector picks the candidate that keeps the agent collision-free longest.
type Selector struct {
	directions Directions
	predictor  Predictor
}

func NewSelector(dirs Directions, p Predictor) *Selector {
	return &Selector{directions: dirs, predictor: p}
}

func (s *Selector) Directions() Directions { return s.directions }
func (s *Selector) Predictor() Predictor   { return s.predictor }

// Select scans the eligible candidates in table order and keeps the first
// one with the greatest predicted time. Hold wins every tie it is part of.
func (s *Selector) Select(a Agent, speeds Speeds, hazards []Hazard, focus FocusMode) Choice {
	best := Choice{Index: Hold, Time: s.predictor.Predict(a, physics.Vec2{}, hazards)}
	for i := Up; i < DirectionCount; i++ {
		if !focus.Allows(&s.directions, i) {
			continue
		}
		if t := s.predictor.Predict(a, s.directions.Velocity(i, speeds), hazards); t > best.Time {
			best = Choice{Index: i, Time: t}
		}
	}
	return best
}

// Scores returns the predicted time of every candidate. Ineligible
// candidates score -Inf.
func (s *Selector) Scores(a Agent, speeds Speeds, hazards []Hazard, focus FocusMode) [DirectionCount]float64 {
	var out [DirectionCount]float64
	for i := range out {
		if !focus.Allows(&s.directions, i) {
			out[i] = math.Inf(-1)
			continue
		}
		out[i] = s.predictor.Predict(a, s.directions.Velocity(i, speeds), hazards)
	}
	return out
}
