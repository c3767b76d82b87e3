// Package zerolog adapts github.com/rs/zerolog to the domain Logger interface.
package zerolog

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ochairo/debugfile/internal/domain/interfaces"
)

// Logger writes human-readable console output through zerolog
type Logger struct {
	log zerolog.Logger
}

var _ interfaces.Logger = (*Logger)(nil)

// New creates a console logger on w. Debug messages are dropped unless verbose is set.
func New(w io.Writer, verbose bool) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return &Logger{log: zerolog.New(console).Level(level).With().Timestamp().Logger()}
}

// NewJSON creates a logger emitting one JSON object per line, for CI log collectors
func NewJSON(w io.Writer, verbose bool) *Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &Logger{log: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	emit(l.log.Debug(), msg, fields)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	emit(l.log.Info(), msg, fields)
}

// Success logs a completed step at info level, tagged for filtering
func (l *Logger) Success(msg string, fields ...interfaces.Field) {
	emit(l.log.Info().Bool("success", true), msg, fields)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	emit(l.log.Warn(), msg, fields)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	emit(l.log.Error(), msg, fields)
}

func emit(e *zerolog.Event, msg string, fields []interfaces.Field) {
	for _, f := range fields {
		e = e.Interface(f.Key, f.Value)
	}
	e.Msg(msg)
}
