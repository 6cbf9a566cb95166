package avoidance

import (
	"github.com/zeusync/evade/internal/core/observability/log"
	"github.com/zeusync/evade/internal/core/systems/physics"
)

// Strategy names accepted by configuration.
const (
	StrategyVelocityObstacle = "vo"
	StrategyHold             = "hold"
)

// Snapshot is everything an algorithm sees on one tick. Hazards belong to
// the caller and must not be retained past Tick.
type Snapshot struct {
	Frame    uint64
	Agent    Agent
	AgentVel physics.Vec2
	Hazards  []Hazard
	Focus    FocusMode
}

// Decision is the output of one tick. Index is always in [0, 16]; it is Hold
// until Calibrated is true. Phase tells the driver which calibration motion
// to produce.
type Decision struct {
	Index      int
	Time       float64
	Calibrated bool
	Phase      Phase
}

// Algorithm is a per-tick decision strategy. Begin receives the first
// snapshot of a run; the same snapshot is then passed to Tick.
type Algorithm interface {
	Name() string
	Begin(s Snapshot)
	Tick(s Snapshot) Decision
}

// Options configures the built-in strategies.
type Options struct {
	Directions        Directions
	HitShape          physics.ShapeKind
	CalibrationFrames int
	Log               log.Log
}

// directions falls back to the default table when none was set.
func (o Options) directions() Directions {
	if o.Directions[Up].Unit.IsZero() {
		return DefaultDirections()
	}
	return o.Directions
}

func (o Options) logger() log.Log {
	if o.Log == nil {
		return log.Nop()
	}
	return o.Log
}

// New builds the named strategy.
func New(name string, opts Options) (Algorithm, error) {
	switch name {
	case StrategyVelocityObstacle, "":
		return NewVelocityObstacle(opts), nil
	case StrategyHold:
		return NewHoldStrategy(opts), nil
	default:
		return nil, ErrUnknownStrategy
	}
}

// VelocityObstacle calibrates the agent's speeds, then greedily picks the
// candidate with the latest predicted collision on every tick.
type VelocityObstacle struct {
	cal      *Calibrator
	selector *Selector
	log      log.Log
	warned   bool
	// start is the frame Begin saw; a Tick on that same frame does not
	// count toward calibration since the agent has not moved yet.
	start uint64
}

func NewVelocityObstacle(opts Options) *VelocityObstacle {
	return &VelocityObstacle{
		cal:      NewCalibrator(opts.CalibrationFrames),
		selector: NewSelector(opts.directions(), Predictor{HitShape: opts.HitShape}),
		log:      opts.logger().With(log.String("strategy", StrategyVelocityObstacle)),
	}
}

func (v *VelocityObstacle) Name() string { return StrategyVelocityObstacle }

func (v *VelocityObstacle) Begin(s Snapshot) {
	v.cal.Begin(s.Agent.Pos)
	v.warned = false
	v.start = s.Frame
}

func (v *VelocityObstacle) Tick(s Snapshot) Decision {
	if !v.cal.Done() {
		if s.Frame == v.start || !v.cal.Tick(s.Agent.Pos) {
			if v.cal.Restarts() > 0 && !v.warned {
				v.warned = true
				v.log.Warn("calibration window saw no motion, restarting",
					log.Stringer("phase", v.cal.Phase()),
					log.Uint64("frame", s.Frame),
				)
			}
			return Decision{
				Index: Hold,
				Time:  v.selector.Predictor().Predict(s.Agent, physics.Vec2{}, s.Hazards),
				Phase: v.cal.Phase(),
			}
		}
		sp := v.cal.Speeds()
		v.log.Info("calibration complete",
			log.Float64("normal_speed", sp.Normal),
			log.Float64("focused_speed", sp.Focused),
			log.Uint64("frame", s.Frame),
		)
	}

	c := v.selector.Select(s.Agent, v.cal.Speeds(), s.Hazards, s.Focus)
	return Decision{Index: c.Index, Time: c.Time, Calibrated: true, Phase: PhaseDone}
}

// Speeds returns the calibrated speeds; zero until calibration is done.
func (v *VelocityObstacle) Speeds() Speeds { return v.cal.Speeds() }

// HoldStrategy never moves. It is the baseline for comparison runs.
type HoldStrategy struct {
	predictor Predictor
}

func NewHoldStrategy(opts Options) *HoldStrategy {
	return &HoldStrategy{predictor: Predictor{HitShape: opts.HitShape}}
}

func (h *HoldStrategy) Name() string   { return StrategyHold }
func (h *HoldStrategy) Begin(Snapshot) {}

func (h *HoldStrategy) Tick(s Snapshot) Decision {
	t := h.predictor.Predict(s.Agent, physics.Vec2{}, s.Hazards)
	return Decision{Index: Hold, Time: t, Calibrated: true, Phase: PhaseDone}
}
