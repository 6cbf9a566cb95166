package arena

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/systems/physics"
)

// ShapeSpec is a shape as written in scenario files: a box with size or a
// circle with radius.
type ShapeSpec struct {
	Kind   string       `yaml:"kind"`
	Size   physics.Vec2 `yaml:"size,omitempty"`
	Radius float64      `yaml:"radius,omitempty"`
}

func (s ShapeSpec) Shape() (physics.Shape, error) {
	kind, ok := physics.ParseShapeKind(s.Kind)
	if !ok {
		return physics.Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
	}
	if kind == physics.ShapeCircle {
		if s.Radius <= 0 {
			return physics.Shape{}, fmt.Errorf("%w: circle radius %v", ErrInvalidScenario, s.Radius)
		}
		return physics.Circle(s.Radius), nil
	}
	if s.Size.X <= 0 || s.Size.Y <= 0 {
		return physics.Shape{}, fmt.Errorf("%w: box size %v", ErrInvalidScenario, s.Size)
	}
	return physics.Box(s.Size.X, s.Size.Y), nil
}

// AgentSpec places the agent. Center is the hitbox center; Speeds are the
// true per-tick displacements the agent moves at.
type AgentSpec struct {
	Center physics.Vec2     `yaml:"center"`
	Shape  ShapeSpec        `yaml:"shape"`
	Speeds avoidance.Speeds `yaml:"speeds"`
}

// HazardSpec describes one hazard or a stream of them. With Count > 1 the
// hazard spawns Count times, Every frames apart, each copy shifted by Offset.
// When Aimed is set the velocity is replaced at spawn time by one of length
// Speed pointing at the agent's center.
type HazardSpec struct {
	Spawn  uint64       `yaml:"spawn"`
	Shape  ShapeSpec    `yaml:"shape"`
	Center physics.Vec2 `yaml:"center"`
	Vel    physics.Vec2 `yaml:"vel"`
	Aimed  bool         `yaml:"aimed,omitempty"`
	Speed  float64      `yaml:"speed,omitempty"`
	Count  int          `yaml:"count,omitempty"`
	Every  uint64       `yaml:"every,omitempty"`
	Offset physics.Vec2 `yaml:"offset,omitempty"`
}

// Scenario is a deterministic arena script.
type Scenario struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Margin is how far outside the bounds a hazard may travel before it is
	// removed.
	Margin  float64      `yaml:"margin"`
	Frames  uint64       `yaml:"frames"`
	Agent   AgentSpec    `yaml:"agent"`
	Hazards []HazardSpec `yaml:"hazards"`
}

// DefaultMargin applies when a scenario leaves Margin at zero.
const DefaultMargin = 32

// LoadScenario decodes and validates a YAML scenario.
func LoadScenario(r io.Reader) (Scenario, error) {
	var sc Scenario
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// LoadScenarioFile reads a scenario from path. An unnamed scenario is named
// after the file.
func LoadScenarioFile(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, err
	}
	defer f.Close()
	sc, err := LoadScenario(f)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Width <= 0 || sc.Height <= 0 {
		return fmt.Errorf("%w: bounds %vx%v", ErrInvalidScenario, sc.Width, sc.Height)
	}
	if sc.Frames == 0 {
		return fmt.Errorf("%w: frames must be positive", ErrInvalidScenario)
	}
	if sc.Margin < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidScenario)
	}
	if _, err := sc.Agent.Shape.Shape(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if sc.Agent.Speeds.Normal <= 0 || sc.Agent.Speeds.Focused <= 0 {
		return fmt.Errorf("%w: agent speeds must be positive", ErrInvalidScenario)
	}
	for i, h := range sc.Hazards {
		if _, err := h.Shape.Shape(); err != nil {
			return fmt.Errorf("hazard %d: %w", i, err)
		}
		if h.Aimed && h.Speed <= 0 {
			return fmt.Errorf("%w: hazard %d is aimed without a speed", ErrInvalidScenario, i)
		}
		if h.Count > 1 && h.Every == 0 {
			return fmt.Errorf("%w: hazard %d repeats without an interval", ErrInvalidScenario, i)
		}
	}
	return nil
}

// spawn is one concrete hazard appearance.
type spawn struct {
	frame uint64
	spec  HazardSpec
	shape physics.Shape
}

// schedule expands streams into single spawns ordered by frame. Spawns on
// the same frame keep file order.
func (sc *Scenario) schedule() []spawn {
	var out []spawn
	for _, h := range sc.Hazards {
		shape, _ := h.Shape.Shape()
		n := max(h.Count, 1)
		for k := 0; k < n; k++ {
			c := h
			c.Center = h.Center.Add(h.Offset.Scale(float64(k)))
			out = append(out, spawn{frame: h.Spawn + uint64(k)*h.Every, spec: c, shape: shape})
		}
	}
	slices.SortStableFunc(out, func(a, b spawn) int { return cmp.Compare(a.frame, b.frame) })
	return out
}
