package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/controller"
	"github.com/zeusync/evade/internal/core/observability/log"
	"github.com/zeusync/evade/internal/core/systems/physics"
	"github.com/zeusync/evade/internal/viewer"
)

// EnvPrefix prefixes environment overrides: EVADE_CONTROLLER_ALGORITHM=hold.
const EnvPrefix = "EVADE"

var ErrInvalid = errors.New("invalid configuration")

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
	// Output replaces stderr as the console destination.
	Output io.Writer `mapstructure:"-" yaml:"-"`
}

// FieldConfig sizes the visualization field.
type FieldConfig struct {
	MinResolution float64 `mapstructure:"min_resolution" yaml:"min_resolution"`
	MaxFrames     float64 `mapstructure:"max_frames" yaml:"max_frames"`
}

type ViewerConfig struct {
	Scale  float64 `mapstructure:"scale" yaml:"scale"`
	Aspect float64 `mapstructure:"aspect" yaml:"aspect"`
	FPS    float64 `mapstructure:"fps" yaml:"fps"`
}

// Config is the application configuration.
type Config struct {
	Log        LogConfig         `mapstructure:"log" yaml:"log"`
	Controller controller.Config `mapstructure:"controller" yaml:"controller"`
	Field      FieldConfig       `mapstructure:"field" yaml:"field"`
	Viewer     ViewerConfig      `mapstructure:"viewer" yaml:"viewer"`
	// Workers bounds how many scenarios or recordings are processed at once.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// SetDefaults registers every key with its default so that environment
// overrides are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 14)
	v.SetDefault("log.compress", false)

	ctrl := controller.DefaultConfig()
	v.SetDefault("controller.algorithm", ctrl.Algorithm)
	v.SetDefault("controller.hit_shape", ctrl.HitShape)
	v.SetDefault("controller.calibration_frames", ctrl.CalibrationFrames)
	v.SetDefault("controller.tick_budget", ctrl.TickBudget)
	v.SetDefault("controller.history", ctrl.History)
	v.SetDefault("controller.directions", "")

	v.SetDefault("field.min_resolution", avoidance.DefaultMinResolution)
	v.SetDefault("field.max_frames", avoidance.DefaultMaxFrames)

	v.SetDefault("viewer.scale", viewer.DefaultScale)
	v.SetDefault("viewer.aspect", viewer.DefaultAspect)
	v.SetDefault("viewer.fps", viewer.DefaultFPS)

	v.SetDefault("workers", 4)
}

// NewDefaultConfig returns the configuration with nothing overridden.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Load reads file (when not empty) on top of the defaults and applies
// EVADE_ environment overrides. Without a file, ./evade.yaml is used if it
// exists.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("evade")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format must be json or console", ErrInvalid)
	}
	if err := c.Controller.Validate(); err != nil {
		return fmt.Errorf("%w: controller: %w", ErrInvalid, err)
	}
	if c.Field.MinResolution <= 0 || c.Field.MaxFrames <= 0 {
		return fmt.Errorf("%w: field sizes must be positive", ErrInvalid)
	}
	if c.Viewer.Scale <= 0 || c.Viewer.Aspect <= 0 || c.Viewer.FPS <= 0 {
		return fmt.Errorf("%w: viewer settings must be positive", ErrInvalid)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalid)
	}
	return nil
}

// LogOptions converts the log section for log.NewWithOptions.
func (c *Config) LogOptions() log.Options {
	level, _ := log.ParseLevel(c.Log.Level)
	return log.Options{
		Level:      level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
		Output:     c.Log.Output,
	}
}

// NewField builds the visualization field with the controller's hit shape.
func (c *Config) NewField() avoidance.Field {
	kind, _ := physics.ParseShapeKind(c.Controller.HitShape)
	return avoidance.NewField(c.Field.MinResolution, c.Field.MaxFrames, kind)
}

func (c *Config) ViewerOptions() viewer.Options {
	return viewer.Options{Scale: c.Viewer.Scale, Aspect: c.Viewer.Aspect, FPS: c.Viewer.FPS}
}

// TickBudget is the controller's per-tick budget.
func (c *Config) TickBudget() time.Duration { return c.Controller.TickBudget }
