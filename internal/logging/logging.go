// Package logging configures the process-wide zerolog logger.
//
// All log output goes to stderr: stdout is reserved for the single
// machine-readable result record the job prints on success.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/hlspress/internal/config"
)

// New builds the root logger from cfg. On an interactive terminal the
// console writer is used (human-readable, optionally colored); otherwise
// structured JSON lines, so piped or service-captured logs stay parseable.
func New(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	var w io.Writer = os.Stderr
	if useConsole(cfg.ColorMode) {
		w = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    cfg.ColorMode == config.ColorNever,
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", "hlspress").
		Logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// useConsole decides between the console writer and raw JSON based on the
// color mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func useConsole(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return IsTerminal(os.Stderr)
	default: // ColorAuto
		return IsTerminal(os.Stderr) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
