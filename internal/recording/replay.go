package recording

import (
	"context"
	"io"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/systems/physics"
)

// Replay feeds recorded frames back as a sensor. The agent's center stays
// at the origin and every non-zero sample becomes a hazard of the given
// shape centered on the sample.
type Replay struct {
	frames []Frame
	next   int
	agent  physics.Shape
	hazard physics.Shape
	keys   input.Mask
}

func NewReplay(frames []Frame, agent, hazard physics.Shape) *Replay {
	return &Replay{frames: frames, agent: agent, hazard: hazard}
}

func (r *Replay) Name() string { return "replay" }

// Sense loads the next frame into snap. It returns io.EOF once every frame
// has been replayed.
func (r *Replay) Sense(ctx context.Context, snap *avoidance.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.next >= len(r.frames) {
		return io.EOF
	}
	f := &r.frames[r.next]
	r.next++
	r.keys = f.Keys

	snap.Agent = avoidance.Agent{Shape: r.agent, Pos: r.agent.At(physics.Vec2{})}
	for _, s := range f.Samples {
		// all-zero slots are unused
		if s.Pos == (physics.Vec2{}) {
			continue
		}
		snap.Hazards = append(snap.Hazards, avoidance.Hazard{
			Shape: r.hazard,
			Pos:   r.hazard.At(s.Pos),
			Vel:   s.Vel,
		})
	}
	return nil
}

// Keys is the mask recorded with the frame last sensed.
func (r *Replay) Keys() input.Mask { return r.keys }

// Remaining is the number of frames not yet replayed.
func (r *Replay) Remaining() int { return len(r.frames) - r.next }
