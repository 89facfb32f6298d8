// Package job orchestrates a single transcode run: poster extraction,
// per-rung segmented encodes, and master playlist assembly.
package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/hlspress/internal/config"
	"github.com/backmassage/hlspress/internal/display"
	"github.com/backmassage/hlspress/internal/ffmpeg"
	"github.com/backmassage/hlspress/internal/hwdetect"
	"github.com/backmassage/hlspress/internal/ladder"
	"github.com/backmassage/hlspress/internal/playlist"
	"github.com/backmassage/hlspress/internal/probe"
)

// Fatal orchestration errors. Each terminates the run with no result record;
// the caller maps them to a non-zero exit.
var (
	ErrInputNotFound = errors.New("input file not found")
	ErrNoVariants    = errors.New("all variant encodes failed")
)

// SourceAnalyzer is the probing step the Runner depends on. probe.Analyzer
// is the production implementation; tests substitute fixed metrics.
type SourceAnalyzer interface {
	Analyze(ctx context.Context, path string, segmentSeconds float64) (probe.SourceMetrics, probe.SegmentParams)
}

// Runner holds the collaborators for one job run. Profile is threaded in as
// a value from the capability detector; nothing here re-detects hardware.
type Runner struct {
	Cfg      *config.Config
	Log      zerolog.Logger
	Engine   ffmpeg.Engine
	Analyzer SourceAnalyzer
	Profile  hwdetect.EncoderProfile
}

// Run executes the full state machine for one input. Recoverable probe
// failures are absorbed by the Analyzer; rung and poster failures are
// recorded, not propagated. Only fatal conditions (missing input,
// uncreatable output tree, zero variants) return an error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{State: StateInit, Mode: r.Cfg.Mode, OutputDir: r.Cfg.OutputDir}

	// --- INIT ---
	fi, err := os.Stat(r.Cfg.InputPath)
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("%w: %s", ErrInputNotFound, r.Cfg.InputPath)
	}

	metrics, seg := r.Analyzer.Analyze(ctx, r.Cfg.InputPath, r.Cfg.SegmentSeconds)
	r.logSource(fi.Size(), metrics, seg)

	if r.Cfg.Mode == config.ModeABR {
		err = r.runABR(ctx, res, metrics, seg)
	} else {
		err = r.runSingle(ctx, res, seg)
	}
	if err != nil {
		res.State = StateFailed
		return res, err
	}

	res.State = StateDone
	return res, nil
}

// runSingle produces one segmented output at source resolution, flat in the
// output directory. The sole encode's failure is fatal.
func (r *Runner) runSingle(ctx context.Context, res *Result, seg probe.SegmentParams) error {
	if err := os.MkdirAll(r.Cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	playlistPath := filepath.Join(r.Cfg.OutputDir, "index.m3u8")
	spec := r.encodeSpec(seg, playlistPath, filepath.Join(r.Cfg.OutputDir, "segment_%03d.ts"), ladder.Rung{})

	if r.Cfg.DryRun {
		r.Log.Info().Str("encoder", spec.Encoder).Msg("[DRY] would extract poster and encode one stream")
		return nil
	}

	start := time.Now()
	var posterPath string
	var g errgroup.Group

	// Poster and encode are independent; run them concurrently.
	res.State = StatePoster
	g.Go(func() error {
		posterPath = r.extractPoster(ctx, r.Cfg.OutputDir)
		return nil
	})

	var encodeErr error
	res.State = StateEncoding
	g.Go(func() error {
		encodeErr = r.Engine.Run(ctx, ffmpeg.BuildEncode(spec))
		return nil
	})

	_ = g.Wait()
	res.PosterPath = posterPath

	if encodeErr != nil {
		return fmt.Errorf("encode: %w", encodeErr)
	}

	res.PlaylistPath = playlistPath
	r.Log.Info().
		Str("playlist", playlistPath).
		Dur("elapsed", time.Since(start)).
		Msg("encode complete")
	return nil
}

// runABR produces one output per planned rung in its own subdirectory, then
// assembles the master playlist from the rungs that succeeded. A single
// rung's failure never aborts its siblings; zero successes is fatal.
func (r *Runner) runABR(ctx context.Context, res *Result, metrics probe.SourceMetrics, seg probe.SegmentParams) error {
	rungs := ladder.Plan(metrics.Width, metrics.Height)
	r.logPlan(rungs)

	if err := os.MkdirAll(r.Cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, rung := range rungs {
		if err := os.MkdirAll(filepath.Join(r.Cfg.OutputDir, rung.Name), 0o755); err != nil {
			return fmt.Errorf("create rung directory %s: %w", rung.Name, err)
		}
	}

	if r.Cfg.DryRun {
		for _, rung := range rungs {
			r.Log.Info().Str("rung", rung.Name).
				Str("bitrate", display.FormatBitrateLabel(int64(rung.BitrateKbps))).
				Msg("[DRY] would encode")
		}
		return nil
	}

	start := time.Now()
	var posterPath string
	outcomes := make([]RungOutcome, len(rungs))

	// Rungs are independent: same immutable input, disjoint output
	// subdirectories. Each collects into its own slot; results merge after
	// the join, so no locking around the accumulator.
	var g errgroup.Group

	res.State = StatePoster
	g.Go(func() error {
		posterPath = r.extractPoster(ctx, r.Cfg.OutputDir)
		return nil
	})

	res.State = StateEncoding
	for i, rung := range rungs {
		i, rung := i, rung
		g.Go(func() error {
			outcomes[i] = r.encodeRung(ctx, seg, rung)
			return nil
		})
	}

	_ = g.Wait()
	res.PosterPath = posterPath
	res.Rungs = outcomes

	// --- ASSEMBLING ---
	res.State = StateAssembling
	succeeded := res.Succeeded()
	if len(succeeded) == 0 {
		return ErrNoVariants
	}

	variants := make([]playlist.Variant, 0, len(succeeded))
	for _, o := range succeeded {
		variants = append(variants, playlist.Variant{
			Width:        o.Rung.Width,
			Height:       o.Rung.Height,
			BandwidthBps: o.Rung.BandwidthBps(),
			URI:          o.Rung.Name + "/index.m3u8",
		})
	}

	masterPath := filepath.Join(r.Cfg.OutputDir, "master.m3u8")
	if err := playlist.WriteMaster(masterPath, variants); err != nil {
		return err
	}
	res.MasterPath = masterPath

	r.Log.Info().
		Strs("qualities", res.Qualities()).
		Int("planned", len(rungs)).
		Dur("elapsed", time.Since(start)).
		Msg("ladder complete")
	return nil
}

// encodeRung runs one rung's encode invocation. Exactly one attempt; the
// outcome records either the playlist path or the failure cause.
func (r *Runner) encodeRung(ctx context.Context, seg probe.SegmentParams, rung ladder.Rung) RungOutcome {
	dir := filepath.Join(r.Cfg.OutputDir, rung.Name)
	playlistPath := filepath.Join(dir, "index.m3u8")
	spec := r.encodeSpec(seg, playlistPath, filepath.Join(dir, "seg_%03d.ts"), rung)

	r.Log.Info().Str("rung", rung.Name).
		Str("bitrate", display.FormatBitrateLabel(int64(rung.BitrateKbps))).
		Msg("transcoding")

	if err := r.Engine.Run(ctx, ffmpeg.BuildEncode(spec)); err != nil {
		r.Log.Warn().Err(err).Str("rung", rung.Name).Msg("rung encode failed, continuing with siblings")
		return RungOutcome{Rung: rung, Err: err}
	}
	return RungOutcome{Rung: rung, PlaylistPath: playlistPath}
}

// encodeSpec assembles the invocation spec from the three option sources.
// A zero rung means single-stream mode: no scaling, quality-driven rate
// control from the profile.
func (r *Runner) encodeSpec(seg probe.SegmentParams, playlistPath, segmentPattern string, rung ladder.Rung) *ffmpeg.EncodeSpec {
	return &ffmpeg.EncodeSpec{
		InputPath:      r.Cfg.InputPath,
		PlaylistPath:   playlistPath,
		SegmentPattern: segmentPattern,
		SegmentSeconds: r.Cfg.SegmentSeconds,
		AudioCodec:     r.Cfg.AudioCodec,
		AudioBitrate:   r.Cfg.AudioBitrate,
		Encoder:        r.Profile.Encoder,
		SegmentOpts:    seg.Options(),
		ProfileOpts:    r.Profile.Options,
		ScaleWidth:     rung.Width,
		BitrateKbps:    rung.BitrateKbps,
	}
}

// extractPoster grabs the first decodable frame to poster.jpg. Best-effort:
// failure is logged at warn and the job continues without a poster.
func (r *Runner) extractPoster(ctx context.Context, dir string) string {
	posterPath := filepath.Join(dir, "poster.jpg")
	if err := r.Engine.Run(ctx, ffmpeg.BuildPoster(r.Cfg.InputPath, posterPath)); err != nil {
		r.Log.Warn().Err(err).Msg("poster extraction failed, continuing without poster")
		return ""
	}
	return posterPath
}

func (r *Runner) logSource(size int64, metrics probe.SourceMetrics, seg probe.SegmentParams) {
	ev := r.Log.Info().
		Str("input", r.Cfg.InputPath).
		Str("size", display.FormatBytes(size)).
		Str("resolution", display.FormatResolution(metrics.Width, metrics.Height)).
		Str("backend", string(r.Profile.Backend))
	if seg.Degraded {
		ev.Str("keyframes", "forced by timestamp (degraded probe)")
	} else {
		ev.Float64("fps", metrics.FPS()).Int("gop", seg.GOP)
	}
	ev.Msg("source analyzed")
}

func (r *Runner) logPlan(rungs []ladder.Rung) {
	names := make([]string, len(rungs))
	for i, rung := range rungs {
		names[i] = rung.Name
	}
	r.Log.Info().Strs("rungs", names).Msg("ladder planned")
}
