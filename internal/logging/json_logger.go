// Package logging provides a common interface and setup for application-wide logging.
package logging

// file: internal/logging/json_logger.go

import (
	"context"
	"io"
	"log/slog"
)

// Level is the logging verbosity threshold.
type Level int

// Levels, ordered low to high severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// currentLevel is shared by every jsonLogger produced by InitLogging, so that
// SetLevel takes effect for loggers already handed out to packages.
var currentLevel = &levelVar{}

type levelVar struct{ v slog.LevelVar }

// InitLogging configures the package-wide default logger to emit structured
// JSON records to w at the given verbosity.
func InitLogging(level Level, w io.Writer) {
	currentLevel.v.Set(level.slogLevel())
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: &currentLevel.v})
	SetDefaultLogger(&jsonLogger{slog: slog.New(handler)})
}

// SetLevel adjusts the verbosity of the logger previously installed by InitLogging.
func SetLevel(level Level) {
	currentLevel.v.Set(level.slogLevel())
}

// IsDebugEnabled reports whether the current level would emit debug records.
func IsDebugEnabled() bool {
	return currentLevel.v.Level() <= slog.LevelDebug
}

// jsonLogger implements Logger on top of log/slog's JSON handler.
type jsonLogger struct {
	slog *slog.Logger
	ctx  context.Context
}

func (l *jsonLogger) context() context.Context {
	if l.ctx != nil {
		return l.ctx
	}
	return context.Background()
}

// Debug implements Logger.
func (l *jsonLogger) Debug(msg string, args ...any) { l.slog.DebugContext(l.context(), msg, args...) }

// Info implements Logger.
func (l *jsonLogger) Info(msg string, args ...any) { l.slog.InfoContext(l.context(), msg, args...) }

// Warn implements Logger.
func (l *jsonLogger) Warn(msg string, args ...any) { l.slog.WarnContext(l.context(), msg, args...) }

// Error implements Logger.
func (l *jsonLogger) Error(msg string, args ...any) { l.slog.ErrorContext(l.context(), msg, args...) }

// WithContext returns a logger that carries ctx into subsequent log calls.
func (l *jsonLogger) WithContext(ctx context.Context) Logger {
	return &jsonLogger{slog: l.slog, ctx: ctx}
}

// WithField returns a logger with an additional structured field attached.
func (l *jsonLogger) WithField(key string, value any) Logger {
	return &jsonLogger{slog: l.slog.With(key, value), ctx: l.ctx}
}
