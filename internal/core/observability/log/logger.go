package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _ Log = (*Logger)(nil)

// Logger is the zap-backed Log.
type Logger struct {
	zap   *zap.Logger
	level zap.AtomicLevel
}

// Options configures a Logger. The zero value logs JSON at info level to
// stderr.
type Options struct {
	Level  Level
	Format string // "json" or "console"
	Output io.Writer

	// File adds a rotated JSON log file next to Output.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds a JSON logger writing to stderr.
func New(level Level) *Logger {
	return NewWithOptions(Options{Level: level})
}

func NewWithOptions(opts Options) *Logger {
	level := zap.NewAtomicLevelAt(toZapLevel(opts.Level))

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cores := []zapcore.Core{
		zapcore.NewCore(encoder(opts.Format), zapcore.Lock(zapcore.AddSync(out)), level),
	}
	if opts.File != "" {
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), rotated, level))
	}
	return &Logger{zap: zap.New(zapcore.NewTee(cores...)), level: level}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop(), level: zap.NewAtomicLevelAt(zap.FatalLevel)}
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	if format == "console" {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.zap.Debug(msg, toZapFields(fields)...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.zap.Info(msg, toZapFields(fields)...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, toZapFields(fields)...) }
func (l *Logger) Error(msg string, fields ...Field) { l.zap.Error(msg, toZapFields(fields)...) }

func (l *Logger) With(fields ...Field) Log {
	return &Logger{zap: l.zap.With(toZapFields(fields)...), level: l.level}
}

// SetLevel changes the level of this logger and of every logger derived
// from it with With.
func (l *Logger) SetLevel(level Level) { l.level.SetLevel(toZapLevel(level)) }

func (l *Logger) Level() Level {
	switch l.level.Level() {
	case zap.DebugLevel:
		return LevelDebug
	case zap.WarnLevel:
		return LevelWarn
	case zap.ErrorLevel, zap.DPanicLevel, zap.PanicLevel, zap.FatalLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Sync() error { return l.zap.Sync() }

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zap.DebugLevel
	case LevelWarn:
		return zap.WarnLevel
	case LevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func (p point) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddFloat64("x", p.x)
	enc.AddFloat64("y", p.y)
	return nil
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case BoolType:
			out[i] = zap.Bool(f.Key, f.Value.(bool))
		case DurationType:
			out[i] = zap.Duration(f.Key, f.Value.(time.Duration))
		case Float64Type:
			out[i] = zap.Float64(f.Key, f.Value.(float64))
		case IntType:
			out[i] = zap.Int(f.Key, f.Value.(int))
		case Int64Type:
			out[i] = zap.Int64(f.Key, f.Value.(int64))
		case StringType:
			out[i] = zap.String(f.Key, f.Value.(string))
		case StringerType:
			out[i] = zap.Stringer(f.Key, f.Value.(fmt.Stringer))
		case Uint64Type:
			out[i] = zap.Uint64(f.Key, f.Value.(uint64))
		case PointType:
			out[i] = zap.Object(f.Key, f.Value.(point))
		case ErrorType:
			err, _ := f.Value.(error)
			out[i] = zap.NamedError(f.Key, err)
		default:
			out[i] = zap.Any(f.Key, f.Value)
		}
	}
	return out
}
