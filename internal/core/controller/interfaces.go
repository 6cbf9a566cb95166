package controller

import (
	"context"
	"time"

	"github.com/zeusync/evade/internal/core/avoidance"
)

// Sensor fills the per-tick snapshot from the outside world: a live
// process, the arena simulator, or a recording.
type Sensor interface {
	// Name is used in errors and logs.
	Name() string
	// Sense is called once per tick, before the algorithm runs. Hazards must
	// be appended to snap.Hazards, which arrives empty.
	Sense(ctx context.Context, snap *avoidance.Snapshot) error
}

// SensorFunc adapts a function to Sensor.
type SensorFunc struct {
	ID string
	Fn func(ctx context.Context, snap *avoidance.Snapshot) error
}

func (s SensorFunc) Name() string { return s.ID }

func (s SensorFunc) Sense(ctx context.Context, snap *avoidance.Snapshot) error {
	return s.Fn(ctx, snap)
}

// Memory stores the decision history and persists it between runs.
type Memory interface {
	AppendDecision(rec DecisionRecord)
	// History returns a copy of the retained records, oldest first.
	History() []DecisionRecord
	Last() (DecisionRecord, bool)
	Reset()
	// Save serializes the memory (gob).
	Save() ([]byte, error)
	Load(b []byte) error
}

// Registry maps strategy names to factories so configuration can pick the
// algorithm.
type Registry interface {
	Register(name string, factory Factory)
	New(name string, opts avoidance.Options) (avoidance.Algorithm, error)
	Names() []string
}

// Factory builds an algorithm from shared options.
type Factory func(opts avoidance.Options) (avoidance.Algorithm, error)

// DecisionRecord is the audit entry kept for every tick.
type DecisionRecord struct {
	Frame       uint64        `json:"frame"`
	Index       int           `json:"index"`
	Direction   string        `json:"direction"`
	Time        float64       `json:"time"`
	Calibrated  bool          `json:"calibrated"`
	Hazards     int           `json:"hazards"`
	Threats     int           `json:"threats"`
	Fingerprint uint64        `json:"fingerprint"`
	Duration    time.Duration `json:"duration"`
	Timestamp   time.Time     `json:"ts"`
}
