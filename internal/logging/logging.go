// Package logging builds the zerolog loggers used by the demo programs.
// Library packages take a zerolog.Logger in their Config and stay silent
// when it is the zero value.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// Config selects the level and output format.
type Config struct {
	Level   string
	Console bool

	// Out defaults to os.Stderr.
	Out io.Writer
}

// New returns a leveled logger with timestamps. Console mode renders
// human-readable lines; otherwise every event is one JSON object.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level, zerolog.InfoLevel)).
		With().Timestamp().Logger()
}

// Nop returns a logger that never writes anything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a level name to a zerolog level, returning def for
// unknown names.
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	default:
		return def
	}
}
