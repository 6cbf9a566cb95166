package log

import (
	"fmt"
	"strings"
	"time"
)

// Log is the structured logger handed to every component. Implementations
// must be safe for concurrent use; With returns a child sharing the level.
type Log interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	With(fields ...Field) Log

	SetLevel(level Level)
	Level() Level
	// Sync flushes buffered entries.
	Sync() error
}

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel maps a level name to a Level. Unknown names yield LevelInfo
// and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Field is one typed key/value pair of a log entry.
type Field struct {
	Key   string
	Type  FieldType
	Value any
}

type FieldType uint8

const (
	AnyType FieldType = iota
	BoolType
	DurationType
	Float64Type
	IntType
	Int64Type
	StringType
	StringerType
	Uint64Type
	PointType
	ErrorType
)

// point is the payload of a PointType field.
type point struct{ x, y float64 }

func Any(key string, val any) Field                { return Field{key, AnyType, val} }
func Bool(key string, val bool) Field              { return Field{key, BoolType, val} }
func Duration(key string, val time.Duration) Field { return Field{key, DurationType, val} }
func Float64(key string, val float64) Field        { return Field{key, Float64Type, val} }
func Int(key string, val int) Field                { return Field{key, IntType, val} }
func Int64(key string, val int64) Field            { return Field{key, Int64Type, val} }
func String(key string, val string) Field          { return Field{key, StringType, val} }
func Uint64(key string, val uint64) Field          { return Field{key, Uint64Type, val} }

// Stringer logs val.String(), evaluated only when the entry is written.
func Stringer(key string, val fmt.Stringer) Field { return Field{key, StringerType, val} }

// Point logs a world position or velocity as {"x":..,"y":..}.
func Point(key string, x, y float64) Field { return Field{key, PointType, point{x, y}} }

// Error logs err under "error".
func Error(err error) Field { return Field{"error", ErrorType, err} }
