// Command hlspress is the CLI entrypoint for the source-adaptive HLS
// transcoder.
//
// It parses flags, detects the encoder backend, and runs a single transcode
// job: poster extraction plus one segmented encode (default) or the full ABR
// ladder with a master playlist (--abr). On success it prints exactly one
// JSON result record to stdout; all logs go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/hlspress/internal/check"
	"github.com/backmassage/hlspress/internal/config"
	"github.com/backmassage/hlspress/internal/display"
	"github.com/backmassage/hlspress/internal/ffmpeg"
	"github.com/backmassage/hlspress/internal/hwdetect"
	"github.com/backmassage/hlspress/internal/job"
	"github.com/backmassage/hlspress/internal/logging"
	"github.com/backmassage/hlspress/internal/probe"
	"github.com/backmassage/hlspress/internal/report"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once the logger is up, all diagnostics go
	// through it; stdout stays reserved for the result record.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "hlspress: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "hlspress: %v\n", err)
		return 1
	}

	log := logging.New(&cfg)

	// Phase 2: Signal handling. Cancel the context on SIGINT/SIGTERM so
	// in-flight encoder subprocesses are stopped rather than orphaned.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn().Msg("received interrupt, stopping")
		cancel()
	}()

	// Banner only on interactive terminals; piped stderr stays log-only.
	if logging.IsTerminal(os.Stderr) {
		display.PrintBanner(cfg.ColorMode != config.ColorNever)
	}

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, log) {
			return 1
		}
		return 0
	}

	log.Info().Str("version", version).Str("commit", commit).
		Str("input", cfg.InputPath).Str("output", cfg.OutputDir).
		Str("mode", string(cfg.Mode)).
		Msg("starting")
	if cfg.DryRun {
		log.Warn().Msg("DRY RUN: no files will be written")
	}

	// Phase 3: Capability detection. An unreachable engine binary is fatal
	// before any file is created; "no hardware found" is not an error and
	// resolves to the software profile.
	profile, err := hwdetect.Detect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("encoder detection failed")
		return 1
	}
	log.Info().Str("backend", string(profile.Backend)).Str("encoder", profile.Encoder).
		Msg("encoder selected")

	// Phase 4: Run the job.
	runner := &job.Runner{
		Cfg:      &cfg,
		Log:      log,
		Engine:   &ffmpeg.Exec{Verbose: cfg.Verbose},
		Analyzer: &probe.Analyzer{Log: logging.WithComponent(log, "probe")},
		Profile:  profile,
	}

	res, err := runner.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("job failed")
		return 1
	}

	if cfg.DryRun {
		return 0
	}

	if err := report.Emit(os.Stdout, res); err != nil {
		log.Error().Err(err).Msg("emit result record")
		return 1
	}
	return 0
}
