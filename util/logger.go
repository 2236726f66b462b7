// Package util provides low-level helpers shared by all other packages.
package util

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger writes levelled messages to stderr.  It keeps the printf-style
// call sites thin while delegating formatting, levels, and timestamps
// to zerolog's console writer.
type Logger struct {
	zl        zerolog.Logger
	verbosity int
	out       io.Writer
}

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = quiet, 1 = normal, 2 = verbose, 3 = debug).
func NewLogger(verbosity int) *Logger {
	l := &Logger{verbosity: verbosity, out: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput overrides the output writer (default: os.Stderr).
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
	l.rebuild()
}

// Verbosity returns the verbosity the logger was built with.
func (l *Logger) Verbosity() int { return l.verbosity }

func (l *Logger) rebuild() {
	cw := zerolog.ConsoleWriter{
		Out:        l.out,
		TimeFormat: "15:04:05.000",
		NoColor:    true,
	}
	l.zl = zerolog.New(cw).Level(level(l.verbosity)).With().Timestamp().Logger()
}

// level maps the repeatable -v count onto zerolog levels.  Quiet mode
// still surfaces errors.
func level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.ErrorLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Info prints when verbosity ≥ 1.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Warn prints when verbosity ≥ 1.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Verbose prints when verbosity ≥ 2.
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Debug prints when verbosity ≥ 3.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Trace().Msgf(format, args...)
}

// Error always prints regardless of verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}
