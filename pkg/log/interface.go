// Package log provides the structured logging interface used across scisplit.
//
// The Logger interface is slog-compatible in shape (message plus key-value
// pairs) so callers do not depend on a backend. The default backend is
// zerolog; tests use TestLogger to capture JSON lines in memory.
//
// Example:
//
//	logger := log.GetLogger().With(log.ComponentKey, "pipeline")
//	logger.Info("dataset loaded",
//	    log.SamplesKey, 32,
//	    log.FeaturesKey, 11,
//	)
package log

import (
	"context"
)

// Logger is a structured logger. fields are alternating keys and values;
// a trailing key without a value is dropped. Error additionally accepts an
// error as the first field.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a Logger that includes fields in every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level; values are compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers; it lets tests inject a TestLogger.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
