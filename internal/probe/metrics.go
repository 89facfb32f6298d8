package probe

import (
	"context"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/backmassage/hlspress/internal/ffmpeg"
)

// defaultFPS is assumed when the frame rate is unreadable or has a zero
// denominator.
const defaultFPS = 30.0

// SourceMetrics are the probed source properties the planner and segment
// math consume. Immutable once computed.
type SourceMetrics struct {
	FPSNum int
	FPSDen int
	Width  int
	Height int
}

// FPS returns the frame rate as a float, defaulting to 30 on a zero or
// missing denominator.
func (m SourceMetrics) FPS() float64 {
	if m.FPSDen <= 0 || m.FPSNum <= 0 {
		return defaultFPS
	}
	return float64(m.FPSNum) / float64(m.FPSDen)
}

// SegmentParams carry the keyframe controls derived from SourceMetrics.
// GOP is the keyframe interval in frames; when Degraded is set the probe
// failed and keyframes are forced by wall-clock expression instead.
type SegmentParams struct {
	GOP      int
	Degraded bool
}

// DeriveSegmentParams computes the keyframe interval for segmentSeconds-long
// segments: round(fps * segmentSeconds), never below 1. Keyframes land
// exactly on segment boundaries so playback seeking and variant switching
// stay clean.
func DeriveSegmentParams(m SourceMetrics, segmentSeconds float64) SegmentParams {
	gop := int(math.Round(m.FPS() * segmentSeconds))
	if gop < 1 {
		gop = 1
	}
	return SegmentParams{GOP: gop}
}

// FallbackSegmentParams is the conservative parameter set used when probing
// fails: keyframes forced every segment interval by timestamp.
func FallbackSegmentParams() SegmentParams {
	return SegmentParams{Degraded: true}
}

// Options returns the keyframe control option set for the encode invocation.
// Scene-cut detection is disabled in both shapes so keyframes never occur
// early and segment boundaries stay exact.
func (p SegmentParams) Options() []ffmpeg.Opt {
	if p.Degraded {
		return []ffmpeg.Opt{
			{Key: "-force_key_frames", Value: "expr:gte(t,n_forced*2)"},
			{Key: "-sc_threshold", Value: "0"},
		}
	}
	g := strconv.Itoa(p.GOP)
	return []ffmpeg.Opt{
		{Key: "-g", Value: g},
		{Key: "-keyint_min", Value: g},
		{Key: "-sc_threshold", Value: "0"},
	}
}

// Analyzer wraps the probe step with the degraded-input policy: any probe
// failure is logged and absorbed, never propagated. The orchestrator depends
// on the SourceAnalyzer interface so tests can substitute fixed metrics.
type Analyzer struct {
	Log zerolog.Logger
}

// Analyze probes path and derives metrics plus segment params. On any probe
// failure (missing file, corrupt container, no video stream, unreadable
// metadata) it returns zero metrics and the fallback params; the job
// continues with degraded precision rather than aborting.
func (a *Analyzer) Analyze(ctx context.Context, path string, segmentSeconds float64) (SourceMetrics, SegmentParams) {
	pr, err := Probe(ctx, path)
	if err != nil {
		a.Log.Warn().Err(err).Str("input", path).
			Msg("probe failed, continuing with forced-keyframe fallback")
		return SourceMetrics{}, FallbackSegmentParams()
	}

	var m SourceMetrics
	m.Width = pr.Video.Width
	m.Height = pr.Video.Height

	if num, den, ok := parseRational(pr.Video.AvgFrameRate); ok {
		m.FPSNum, m.FPSDen = num, den
	}
	if m.FPS() == defaultFPS && m.FPSDen <= 0 {
		a.Log.Debug().Str("avg_frame_rate", pr.Video.AvgFrameRate).
			Msg("frame rate unreadable, assuming 30 fps")
	}

	return m, DeriveSegmentParams(m, segmentSeconds)
}
