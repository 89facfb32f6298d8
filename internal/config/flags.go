package config

// This file implements CLI flag parsing and help text.
// Boolean mode switches (e.g. --abr) are applied after Parse so Config
// defaults hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error (unknown flag, wrong positional arg count) it prints usage
// to stderr and returns non-nil.
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("hlspress", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var sw switches

	fs.BoolVar(&sw.abr, "abr", false, "Produce the full ABR ladder plus master playlist")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Plan only; do not invoke the encoder")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (debug logs, live ffmpeg stderr)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&sw.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&sw.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&sw.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&sw.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&sw.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&sw.showHelp, "h", false, "Same as --help")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applySwitches(cfg, &sw)

	if sw.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if sw.showVersion {
		fmt.Fprintln(os.Stdout, "hlspress v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg, version)
}

// switches holds boolean flags that are applied after Parse. These either
// switch a default (abr -> Mode) or trigger exit (showHelp, showVersion).
type switches struct {
	abr         bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

func applySwitches(cfg *Config, sw *switches) {
	if sw.abr {
		cfg.Mode = ModeABR
	}
	if sw.noColor {
		cfg.ColorMode = ColorNever
	} else if sw.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputPath and OutputDir from the two positional
// args when not in CheckOnly mode. Wrong arg count prints usage (the CLI
// contract: missing arguments go to the diagnostic channel with exit 1).
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config, version string) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		printUsage(fs, version)
		return fmt.Errorf("need exactly input_file and output_dir")
	}
	cfg.InputPath = strings.TrimSpace(args[0])
	cfg.OutputDir = NormalizeDirArg(args[1])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 24 // width of "  -x, --long-name  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "hlspress v" + version + " - source-adaptive HLS transcoder"},
		{"", ""},
		{"  hlspress [OPTIONS] <input_file> <output_dir>", ""},
		{"", ""},
		{"Job", ""},
		{"  --abr", "Produce the full ABR ladder plus master playlist"},
		{"  -d, --dry-run", "Plan only; do not invoke the encoder"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, encoders, AAC)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
