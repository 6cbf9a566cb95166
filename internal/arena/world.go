package arena

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/systems/physics"
	"github.com/zeusync/evade/internal/recording"
)

type hazard struct {
	avoidance.Hazard
	touching bool
}

// World is a deterministic arena. It plays the part of the steered process:
// the controller senses it and presses keys on it, and Step advances it by
// one tick using the keys currently held.
type World struct {
	sc     Scenario
	agent  avoidance.Agent
	vel    physics.Vec2
	min    physics.Vec2
	max    physics.Vec2
	queue  []spawn
	live   []hazard
	frame  uint64
	hits   int
	spawns int

	mu     sync.Mutex
	held   map[input.KeyCode]struct{}
	closed bool
}

// NewWorld validates sc and places everything due on frame 0.
func NewWorld(sc Scenario) (*World, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if sc.Margin == 0 {
		sc.Margin = DefaultMargin
	}
	shape, _ := sc.Agent.Shape.Shape()
	w := &World{
		sc:    sc,
		agent: avoidance.Agent{Shape: shape, Pos: shape.At(sc.Agent.Center)},
		min:   physics.V(-sc.Margin, -sc.Margin),
		max:   physics.V(sc.Width+sc.Margin, sc.Height+sc.Margin),
		queue: sc.schedule(),
		held:  make(map[input.KeyCode]struct{}),
	}
	w.agent.Pos = w.clamp(w.agent.Pos)
	w.release()
	w.detect()
	return w, nil
}

func (w *World) Name() string { return "arena:" + w.sc.Name }

// Sense copies the agent and the live hazards into snap.
func (w *World) Sense(ctx context.Context, snap *avoidance.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap.Agent = w.agent
	snap.AgentVel = w.vel
	for _, h := range w.live {
		snap.Hazards = append(snap.Hazards, h.Hazard)
	}
	return nil
}

func (w *World) Press(keys ...input.KeyCode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return input.ErrSynthesizerClosed
	}
	for _, k := range keys {
		if k != input.KeyNone {
			w.held[k] = struct{}{}
		}
	}
	return nil
}

func (w *World) Release(keys ...input.KeyCode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return input.ErrSynthesizerClosed
	}
	for _, k := range keys {
		delete(w.held, k)
	}
	return nil
}

// Close makes further key presses fail.
func (w *World) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

// Mask is the mask of the keys held right now.
func (w *World) Mask() input.Mask {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]input.KeyCode, 0, len(w.held))
	for k := range w.held {
		keys = append(keys, k)
	}
	return input.MaskOf(keys...)
}

// Velocity is the agent displacement per tick produced by mask. Opposing
// keys cancel; diagonals keep the mode's speed.
func (w *World) Velocity(mask input.Mask) physics.Vec2 {
	var d physics.Vec2
	if mask.Has(input.MaskUp) {
		d.Y--
	}
	if mask.Has(input.MaskDown) {
		d.Y++
	}
	if mask.Has(input.MaskLeft) {
		d.X--
	}
	if mask.Has(input.MaskRight) {
		d.X++
	}
	if d.IsZero() {
		return physics.Vec2{}
	}
	speed := w.sc.Agent.Speeds.Normal
	if mask.Has(input.MaskSlow) {
		speed = w.sc.Agent.Speeds.Focused
	}
	return d.Unit().Scale(speed)
}

// Step advances the world one tick with the held keys and returns the
// recorded form of the tick that just ended.
func (w *World) Step() recording.Frame {
	mask := w.Mask()
	rec := w.Record(mask)

	w.vel = w.Velocity(mask)
	w.agent.Pos = w.clamp(w.agent.Pos.Add(w.vel))

	for i := range w.live {
		w.live[i].Pos.AddAssign(w.live[i].Vel)
	}
	w.live = slices.DeleteFunc(w.live, w.gone)

	w.frame++
	w.release()
	w.detect()
	return rec
}

// Record returns the hazards as seen from the agent's center together with
// mask.
func (w *World) Record(mask input.Mask) recording.Frame {
	center := w.agent.Shape.Center(w.agent.Pos)
	f := recording.Frame{Samples: make([]recording.Sample, 0, len(w.live)), Keys: mask}
	for _, h := range w.live {
		f.Samples = append(f.Samples, recording.Sample{
			Pos: h.Shape.Center(h.Pos).Sub(center),
			Vel: h.Vel,
		})
	}
	return f
}

func (w *World) Frame() uint64          { return w.frame }
func (w *World) Done() bool             { return w.frame >= w.sc.Frames }
func (w *World) Agent() avoidance.Agent { return w.agent }
func (w *World) Scenario() Scenario     { return w.sc }
func (w *World) Live() int              { return len(w.live) }

// Hits counts hazards that started overlapping the agent. A hazard lingering
// on the agent counts once.
func (w *World) Hits() int { return w.hits }

// Spawned is the number of hazards released so far.
func (w *World) Spawned() int { return w.spawns }

// calibrationDrive picks the motion for calibration phase p. The phase's
// usual drive is kept when the agent has room for frames ticks of it at the
// phase's speed; otherwise the cardinal direction of the same mode with the
// most room wins.
func (w *World) calibrationDrive(p avoidance.Phase, frames int) int {
	drive := p.Drive()
	if drive == avoidance.Hold {
		return drive
	}
	speed, base := w.sc.Agent.Speeds.Normal, 0
	if p == avoidance.PhaseFocused {
		speed, base = w.sc.Agent.Speeds.Focused, avoidance.FocusedOffset
	}
	need := float64(frames) * speed

	tl, size := w.agent.Shape.Bounds(w.agent.Pos)
	rooms := [...]struct {
		dir  int
		room float64
	}{
		{avoidance.Up, tl.Y},
		{avoidance.Down, w.sc.Height - tl.Y - size.Y},
		{avoidance.Left, tl.X},
		{avoidance.Right, w.sc.Width - tl.X - size.X},
	}

	best, most := drive, -1.0
	for _, r := range rooms {
		d := r.dir + base
		if d == drive && r.room >= need {
			return drive
		}
		if r.room > most {
			best, most = d, r.room
		}
	}
	return best
}

func (w *World) clamp(p physics.Vec2) physics.Vec2 {
	tl, size := w.agent.Shape.Bounds(p)
	fixed := physics.V(
		math.Max(0, math.Min(tl.X, w.sc.Width-size.X)),
		math.Max(0, math.Min(tl.Y, w.sc.Height-size.Y)),
	)
	return p.Add(fixed.Sub(tl))
}

// release moves every spawn due on the current frame into play.
func (w *World) release() {
	n := 0
	for n < len(w.queue) && w.queue[n].frame <= w.frame {
		s := w.queue[n]
		center := s.spec.Center
		vel := s.spec.Vel
		if s.spec.Aimed {
			to := w.agent.Shape.Center(w.agent.Pos).Sub(center)
			if !to.IsZero() {
				vel = to.Unit().Scale(s.spec.Speed)
			}
		}
		w.live = append(w.live, hazard{Hazard: avoidance.Hazard{
			Shape: s.shape,
			Pos:   s.shape.At(center),
			Vel:   vel,
		}})
		n++
	}
	w.spawns += n
	w.queue = w.queue[n:]
}

func (w *World) gone(h hazard) bool {
	p, size := h.Shape.Bounds(h.Pos)
	return !physics.CollideAABB(w.min, w.max.Sub(w.min), p, size)
}

func (w *World) detect() {
	a := physics.Body{Shape: w.agent.Shape, Pos: w.agent.Pos}
	for i := range w.live {
		h := &w.live[i]
		touching := physics.Collide(a, physics.Body{Shape: h.Shape, Pos: h.Pos})
		if touching && !h.touching {
			w.hits++
		}
		h.touching = touching
	}
}
