package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/observability/log"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, avoidance.StrategyVelocityObstacle, cfg.Controller.Algorithm)
	assert.Equal(t, "box", cfg.Controller.HitShape)
	assert.Equal(t, avoidance.DefaultCalibrationFrames, cfg.Controller.CalibrationFrames)
	assert.Equal(t, time.Second/60, cfg.TickBudget())
	assert.Equal(t, float64(avoidance.DefaultMaxFrames), cfg.Field.MaxFrames)
	assert.Equal(t, 60.0, cfg.Viewer.FPS)
	assert.Equal(t, 4, cfg.Workers)

	f := cfg.NewField()
	assert.Equal(t, float64(avoidance.DefaultMinResolution), f.MinResolution)
	assert.Equal(t, log.LevelInfo, cfg.LogOptions().Level)
	assert.Equal(t, 4.0, cfg.ViewerOptions().Scale)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evade.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
controller:
  algorithm: hold
  hit_shape: circle
  tick_budget: 5ms
field:
  max_frames: 120
workers: 2
`), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, log.LevelDebug, cfg.LogOptions().Level)
	assert.Equal(t, avoidance.StrategyHold, cfg.Controller.Algorithm)
	assert.Equal(t, "circle", cfg.Controller.HitShape)
	assert.Equal(t, 5*time.Millisecond, cfg.Controller.TickBudget)
	assert.Equal(t, 120.0, cfg.Field.MaxFrames)
	assert.Equal(t, float64(avoidance.DefaultMinResolution), cfg.Field.MinResolution, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("EVADE_CONTROLLER_ALGORITHM", "hold")
	t.Setenv("EVADE_VIEWER_FPS", "30")
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err, "a missing default file is not an error")
	assert.Equal(t, avoidance.StrategyHold, cfg.Controller.Algorithm)
	assert.Equal(t, 30.0, cfg.Viewer.FPS)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("controller:\n  hit_shape: hexagon\n"), 0o600))
	_, err = Load(viper.New(), bad)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"level":    func(c *Config) { c.Log.Level = "loud" },
		"format":   func(c *Config) { c.Log.Format = "xml" },
		"calib":    func(c *Config) { c.Controller.CalibrationFrames = -1 },
		"field":    func(c *Config) { c.Field.MinResolution = 0 },
		"viewer":   func(c *Config) { c.Viewer.FPS = 0 },
		"workers":  func(c *Config) { c.Workers = 0 },
		"hitshape": func(c *Config) { c.Controller.HitShape = "line" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}
