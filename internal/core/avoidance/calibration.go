package avoidance

import (
	"math"

	"github.com/zeusync/evade/internal/core/systems/physics"
)

// DefaultCalibrationFrames is the length of each calibration window.
const DefaultCalibrationFrames = 60

// Phase is the calibration step the agent is in. The driver of the agent
// uses it to decide which motion to produce while decisions are withheld.
type Phase int

const (
	PhaseNormal Phase = iota
	PhaseFocused
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseFocused:
		return "focused"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Drive returns the candidate the agent must be moved along during this
// phase: full speed right, then focused left. PhaseDone yields Hold.
func (p Phase) Drive() int {
	switch p {
	case PhaseNormal:
		return Right
	case PhaseFocused:
		return FocusedLeft
	default:
		return Hold
	}
}

// Calibrator measures the agent's speeds over two consecutive windows.
// Once done its speeds never change.
type Calibrator struct {
	frames   int
	phase    Phase
	start    physics.Vec2
	count    int
	speeds   Speeds
	restarts int
}

// NewCalibrator creates a calibrator with windows of the given length.
// Non-positive lengths fall back to DefaultCalibrationFrames.
func NewCalibrator(frames int) *Calibrator {
	if frames <= 0 {
		frames = DefaultCalibrationFrames
	}
	return &Calibrator{frames: frames}
}

// Begin starts calibration over from pos.
func (c *Calibrator) Begin(pos physics.Vec2) {
	c.phase = PhaseNormal
	c.start = pos
	c.count = 0
	c.speeds = Speeds{}
	c.restarts = 0
}

// Tick advances the current window with the agent's position and reports
// whether calibration is complete. A window with no measurable displacement
// is started again from pos.
func (c *Calibrator) Tick(pos physics.Vec2) bool {
	if c.phase == PhaseDone {
		return true
	}

	c.count++
	if c.count < c.frames {
		return false
	}

	speed := pos.Sub(c.start).Len() / float64(c.count)
	c.start = pos
	c.count = 0
	if speed <= physics.ZeroEpsilon || math.IsNaN(speed) {
		c.restarts++
		return false
	}

	switch c.phase {
	case PhaseNormal:
		c.speeds.Normal = speed
		c.phase = PhaseFocused
	case PhaseFocused:
		c.speeds.Focused = speed
		c.phase = PhaseDone
	}
	return c.phase == PhaseDone
}

func (c *Calibrator) Phase() Phase   { return c.phase }
func (c *Calibrator) Done() bool     { return c.phase == PhaseDone }
func (c *Calibrator) Speeds() Speeds { return c.speeds }

// Restarts counts windows discarded for lack of motion since Begin.
func (c *Calibrator) Restarts() int { return c.restarts }
