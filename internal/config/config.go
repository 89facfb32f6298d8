// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Segmentation constants are fixed by the HLS output contract and
// are not user-configurable.
package config

import (
	"errors"
	"strings"
)

// --- Enum types for validated string fields ---

// Mode selects the job shape: one stream or a full ABR ladder.
type Mode string

const (
	ModeSingle Mode = "single" // One segmented output at source resolution (default).
	ModeABR    Mode = "abr"    // One output per ladder rung plus a master playlist.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args).
	InputPath string
	OutputDir string

	// Job shape.
	Mode Mode

	// Segmentation constants (fixed; keyframe math depends on SegmentSeconds).
	SegmentSeconds float64 // Fixed: 2.0. Segment duration and GOP alignment target.
	AudioCodec     string  // Fixed: "aac".
	AudioBitrate   string  // Fixed: "128k".

	// Behavior flags.
	DryRun    bool
	CheckOnly bool // Run --check diagnostics and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeSingle,
		SegmentSeconds: 2.0,
		AudioCodec:     "aac",
		AudioBitrate:   "128k",
		ColorMode:      ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that enum fields hold valid values. When not in CheckOnly
// mode, it also requires that both positional paths were provided.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSingle, ModeABR:
		// valid
	default:
		return errors.New("invalid mode (use 'single' or 'abr')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.SegmentSeconds <= 0 {
		return errors.New("segment duration must be positive")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputPath == "" || c.OutputDir == "" {
		return errors.New("need exactly input_file and output_dir")
	}
	return nil
}
