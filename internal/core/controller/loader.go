package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/observability/log"
	"github.com/zeusync/evade/internal/core/systems/physics"
)

// Config describes a controller in JSON or YAML. The algorithm is looked up
// by name in a Registry.
type Config struct {
	Algorithm         string        `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"`
	HitShape          string        `json:"hit_shape" yaml:"hit_shape" mapstructure:"hit_shape"`
	CalibrationFrames int           `json:"calibration_frames" yaml:"calibration_frames" mapstructure:"calibration_frames"`
	TickBudget        time.Duration `json:"tick_budget" yaml:"tick_budget" mapstructure:"tick_budget"`
	History           int           `json:"history" yaml:"history" mapstructure:"history"`
	// Directions optionally names a YAML direction table replacing the
	// default one.
	Directions string `json:"directions,omitempty" yaml:"directions,omitempty" mapstructure:"directions"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Algorithm:         avoidance.StrategyVelocityObstacle,
		HitShape:          physics.ShapeBox.String(),
		CalibrationFrames: avoidance.DefaultCalibrationFrames,
		TickBudget:        time.Second / physics.TickRate,
		History:           DefaultHistory,
	}
}

// LoadJSON loads config from a JSON reader. tick_budget may be a duration
// string ("16ms") or nanoseconds. Unset fields keep their defaults.
func LoadJSON(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	type alias Config
	aux := struct {
		*alias
		TickBudget json.RawMessage `json:"tick_budget"`
	}{alias: (*alias)(&c)}
	if err := json.NewDecoder(r).Decode(&aux); err != nil {
		return nil, err
	}
	if len(aux.TickBudget) > 0 {
		d, err := parseJSONDuration(aux.TickBudget)
		if err != nil {
			return nil, fmt.Errorf("tick_budget: %w", err)
		}
		c.TickBudget = d
	}
	return &c, nil
}

func parseJSONDuration(raw json.RawMessage) (time.Duration, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return time.ParseDuration(s)
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	return time.Duration(n), nil
}

// LoadYAML loads config from a YAML reader. Unset fields keep their
// defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks field ranges and the hit shape name.
func (c *Config) Validate() error {
	if _, ok := physics.ParseShapeKind(c.HitShape); !ok {
		return fmt.Errorf("%w: hit_shape %q", ErrInvalidConfig, c.HitShape)
	}
	if c.CalibrationFrames < 0 {
		return fmt.Errorf("%w: calibration_frames must not be negative", ErrInvalidConfig)
	}
	if c.TickBudget < 0 {
		return fmt.Errorf("%w: tick_budget must not be negative", ErrInvalidConfig)
	}
	if c.History < 0 {
		return fmt.Errorf("%w: history must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Options turns the config into algorithm options, loading the direction
// table when one is named.
func (c *Config) Options(l log.Log) (avoidance.Options, error) {
	if err := c.Validate(); err != nil {
		return avoidance.Options{}, err
	}
	kind, _ := physics.ParseShapeKind(c.HitShape)
	opts := avoidance.Options{
		Directions:        avoidance.DefaultDirections(),
		HitShape:          kind,
		CalibrationFrames: c.CalibrationFrames,
		Log:               l,
	}
	if c.Directions != "" {
		f, err := os.Open(c.Directions)
		if err != nil {
			return avoidance.Options{}, fmt.Errorf("open direction table: %w", err)
		}
		defer f.Close()
		if opts.Directions, err = avoidance.LoadDirections(f); err != nil {
			return avoidance.Options{}, fmt.Errorf("%s: %w", c.Directions, err)
		}
	}
	return opts, nil
}

// Build instantiates the configured algorithm from reg.
func (c *Config) Build(reg Registry, l log.Log) (avoidance.Algorithm, avoidance.Options, error) {
	opts, err := c.Options(l)
	if err != nil {
		return nil, avoidance.Options{}, err
	}
	name := c.Algorithm
	if name == "" {
		name = avoidance.StrategyVelocityObstacle
	}
	algo, err := reg.New(name, opts)
	if err != nil {
		return nil, avoidance.Options{}, err
	}
	return algo, opts, nil
}
