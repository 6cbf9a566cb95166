package controller

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/evade/internal/core/avoidance"
	bus "github.com/zeusync/evade/internal/core/events/bus"
	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/observability/log"
)

// Event types published on the controller's bus.
const (
	EventCalibrated = "controller.calibrated"
	EventDecision   = "controller.decision"
)

// Options assembles a Controller. Only Algorithm is required.
type Options struct {
	Algorithm   avoidance.Algorithm
	Sensors     []Sensor
	Synthesizer input.Synthesizer
	Keys        *input.KeyTable
	Directions  *avoidance.Directions
	Predictor   avoidance.Predictor
	Memory      Memory
	Events      *bus.Bus[DecisionRecord]
	Log         log.Log
	TickBudget  time.Duration
	Clock       func() time.Time
}

// Controller runs one decision per Step: sensors fill a snapshot, the
// algorithm decides, the decision's keys are synthesized, and the outcome
// is recorded and published.
type Controller struct {
	id        string
	algo      avoidance.Algorithm
	sensors   []Sensor
	synth     input.Synthesizer
	keys      input.KeyTable
	dirs      avoidance.Directions
	predictor avoidance.Predictor
	mem       Memory
	events    *bus.Bus[DecisionRecord]
	log       log.Log
	budget    time.Duration
	clock     func() time.Time

	snap       avoidance.Snapshot
	threats    []avoidance.Hazard
	frame      uint64
	begun      bool
	calibrated bool
}

// New builds a controller, filling unset components with defaults.
func New(opts Options) (*Controller, error) {
	if opts.Algorithm == nil {
		return nil, ErrNoAlgorithm
	}
	c := &Controller{
		id:        uuid.NewString(),
		algo:      opts.Algorithm,
		sensors:   opts.Sensors,
		synth:     opts.Synthesizer,
		keys:      input.DefaultKeyTable(),
		dirs:      avoidance.DefaultDirections(),
		predictor: opts.Predictor,
		mem:       opts.Memory,
		events:    opts.Events,
		log:       opts.Log,
		budget:    opts.TickBudget,
		clock:     opts.Clock,
	}
	if opts.Keys != nil {
		c.keys = *opts.Keys
	}
	if opts.Directions != nil {
		c.dirs = *opts.Directions
	}
	if c.mem == nil {
		c.mem = NewMemory(DefaultHistory)
	}
	if c.events == nil {
		c.events = bus.New[DecisionRecord]()
	}
	if c.log == nil {
		c.log = log.Nop()
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	c.log = c.log.With(log.String("controller", c.id), log.String("algorithm", c.algo.Name()))
	return c, nil
}

func (c *Controller) ID() string                       { return c.id }
func (c *Controller) Memory() Memory                   { return c.mem }
func (c *Controller) Events() *bus.Bus[DecisionRecord] { return c.events }
func (c *Controller) Frame() uint64                    { return c.frame }

// Step performs one tick: sensors -> algorithm -> keys -> memory -> events.
func (c *Controller) Step(ctx context.Context) (avoidance.Decision, error) {
	if err := ctx.Err(); err != nil {
		return avoidance.Decision{}, err
	}

	// 1) sensors
	c.snap = avoidance.Snapshot{Frame: c.frame, Hazards: c.snap.Hazards[:0]}
	for _, s := range c.sensors {
		if err := s.Sense(ctx, &c.snap); err != nil {
			return avoidance.Decision{}, fmt.Errorf("sensor %s: %w", s.Name(), err)
		}
	}

	// 2) algorithm
	start := c.clock()
	if !c.begun {
		c.algo.Begin(c.snap)
		c.begun = true
	}
	d := c.algo.Tick(c.snap)
	took := c.clock().Sub(start)
	if d.Index < avoidance.Hold || d.Index >= avoidance.DirectionCount {
		return d, fmt.Errorf("%w: %d", ErrInvalidDecision, d.Index)
	}

	// 3) keys
	if c.synth != nil {
		if err := input.Apply(c.synth, c.keys.Combo(d.Index)); err != nil {
			return d, fmt.Errorf("synthesize %s: %w", c.dirs.Name(d.Index), err)
		}
	}

	// 4) history
	var threat float64
	threat, c.threats = c.predictor.PredictCollect(c.snap.Agent, c.snap.AgentVel, c.snap.Hazards, c.threats[:0])
	rec := DecisionRecord{
		Frame:       c.frame,
		Index:       d.Index,
		Direction:   c.dirs.Name(d.Index),
		Time:        d.Time,
		Calibrated:  d.Calibrated,
		Hazards:     len(c.snap.Hazards),
		Threats:     len(c.threats),
		Fingerprint: Fingerprint(c.snap.Hazards),
		Duration:    took,
		Timestamp:   c.clock(),
	}
	c.mem.AppendDecision(rec)

	if c.budget > 0 && took > c.budget {
		c.log.Warn("tick over budget",
			log.Uint64("frame", c.frame),
			log.Duration("took", took),
			log.Duration("budget", c.budget),
			log.Int("hazards", rec.Hazards),
		)
	}

	// 5) events
	if d.Calibrated && !c.calibrated {
		c.calibrated = true
		if err := c.events.Publish(bus.NewEvent(EventCalibrated, c.id, rec, nil)); err != nil {
			c.log.Error("calibrated handler failed", log.Error(err))
		}
	}
	if err := c.events.Publish(bus.NewEvent(EventDecision, c.id, rec, map[string]any{"threat": threat})); err != nil {
		c.log.Error("decision handler failed", log.Error(err), log.Uint64("frame", c.frame))
	}

	c.log.Debug("decision",
		log.Uint64("frame", c.frame),
		log.String("direction", rec.Direction),
		log.Float64("time", d.Time),
		log.Int("threats", rec.Threats),
	)

	c.frame++
	return d, nil
}

type controllerState struct {
	Frame uint64
	Mem   []byte
}

// SaveState returns a gob snapshot of the frame counter and memory.
func (c *Controller) SaveState() ([]byte, error) {
	memBytes, err := c.mem.Save()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = gob.NewEncoder(&buf).Encode(controllerState{Frame: c.frame, Mem: memBytes}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadState restores a snapshot produced by SaveState. Algorithm state is
// not part of it; a restored controller calibrates again.
func (c *Controller) LoadState(b []byte) error {
	var state controllerState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&state); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	if len(state.Mem) > 0 {
		if err := c.mem.Load(state.Mem); err != nil {
			return fmt.Errorf("%w: memory: %w", ErrCorruptState, err)
		}
	}
	c.frame = state.Frame
	c.calibrated = false
	c.begun = false
	return nil
}

// BuildFromConfig assembles a controller from cfg using reg to pick the
// algorithm. Components in base (sensors, synthesizer, bus, log) are kept.
func BuildFromConfig(cfg *Config, reg Registry, base Options) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	algo, opts, err := cfg.Build(reg, base.Log)
	if err != nil {
		return nil, err
	}
	base.Algorithm = algo
	base.Directions = &opts.Directions
	base.Predictor = avoidance.Predictor{HitShape: opts.HitShape}
	base.TickBudget = cfg.TickBudget
	if base.Memory == nil {
		base.Memory = NewMemory(cfg.History)
	}
	return New(base)
}
