package avoidance

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/evade/internal/core/systems/physics"
)

// DirectionCount is the number of movement candidates.
const DirectionCount = 17

// Direction indices. Focused variants of Up..DownRight follow at
// FocusedOffset.
const (
	Hold = iota
	Up
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
	FocusedUp
	FocusedDown
	FocusedLeft
	FocusedRight
	FocusedUpLeft
	FocusedUpRight
	FocusedDownLeft
	FocusedDownRight
)

const (
	FocusedOffset = FocusedUp - Up
	unitTolerance = 1e-4
)

// Direction is one movement candidate. Unit is zero for hold; Y grows
// downward so Up is (0, -1).
type Direction struct {
	Name    string       `yaml:"name" json:"name"`
	Unit    physics.Vec2 `yaml:"unit" json:"unit"`
	Focused bool         `yaml:"focused" json:"focused"`
}

// Speeds holds the calibrated per-tick displacement in both movement modes.
type Speeds struct {
	Normal  float64 `yaml:"normal" json:"normal"`
	Focused float64 `yaml:"focused" json:"focused"`
}

// Directions is the candidate table. It is a value type; copies never share
// state.
type Directions [DirectionCount]Direction

// DefaultDirections returns the standard candidate table.
func DefaultDirections() Directions {
	d := 1 / math.Sqrt2
	base := [...]struct {
		name string
		unit physics.Vec2
	}{
		{"up", physics.V(0, -1)},
		{"down", physics.V(0, 1)},
		{"left", physics.V(-1, 0)},
		{"right", physics.V(1, 0)},
		{"up-left", physics.V(-d, -d)},
		{"up-right", physics.V(d, -d)},
		{"down-left", physics.V(-d, d)},
		{"down-right", physics.V(d, d)},
	}

	var t Directions
	t[Hold] = Direction{Name: "hold"}
	for i, b := range base {
		t[Up+i] = Direction{Name: b.name, Unit: b.unit}
		t[FocusedUp+i] = Direction{Name: "focused-" + b.name, Unit: b.unit, Focused: true}
	}
	return t
}

// Velocity returns the effective velocity of candidate i. Hold and indices
// outside the table yield the zero vector.
func (t *Directions) Velocity(i int, s Speeds) physics.Vec2 {
	if i <= Hold || i >= DirectionCount {
		return physics.Vec2{}
	}
	d := t[i]
	if d.Focused {
		return d.Unit.Scale(s.Focused)
	}
	return d.Unit.Scale(s.Normal)
}

// Name returns the name of candidate i, or "invalid".
func (t *Directions) Name(i int) string {
	if i < 0 || i >= DirectionCount {
		return "invalid"
	}
	return t[i].Name
}

// Validate checks the table layout: a zero hold row, unit-length movement
// rows, focused rows 9-16 mirroring rows 1-8, and every row pointing the way
// the keys pressed for its index move the agent. Only names may differ from
// the default table.
func (t *Directions) Validate() error {
	if !t[Hold].Unit.IsZero() || t[Hold].Focused {
		return ErrHoldNotZero
	}
	for i := Up; i < DirectionCount; i++ {
		if math.Abs(t[i].Unit.Len()-1) > unitTolerance {
			return fmt.Errorf("row %d (%s): %w", i, t[i].Name, ErrNotUnit)
		}
	}
	for i := Up; i < FocusedUp; i++ {
		n, f := t[i], t[i+FocusedOffset]
		if n.Focused || !f.Focused || physics.Distance(n.Unit, f.Unit) > unitTolerance {
			return fmt.Errorf("rows %d/%d: %w", i, i+FocusedOffset, ErrFocusLayout)
		}
	}
	def := DefaultDirections()
	for i := Up; i < DirectionCount; i++ {
		if physics.Distance(t[i].Unit, def[i].Unit) > unitTolerance {
			return fmt.Errorf("row %d (%s) expected %s: %w", i, t[i].Name, def[i].Name, ErrKeyMismatch)
		}
	}
	return nil
}

// LoadDirections decodes a YAML list of 17 directions and validates it.
func LoadDirections(r io.Reader) (Directions, error) {
	var rows []Direction
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		return Directions{}, fmt.Errorf("decode directions: %w", err)
	}
	if len(rows) != DirectionCount {
		return Directions{}, fmt.Errorf("got %d rows: %w", len(rows), ErrDirectionCount)
	}
	var t Directions
	copy(t[:], rows)
	if err := t.Validate(); err != nil {
		return Directions{}, err
	}
	return t, nil
}
