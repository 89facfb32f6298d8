package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/hlspress/internal/config"
	"github.com/backmassage/hlspress/internal/hwdetect"
	"github.com/backmassage/hlspress/internal/probe"
)

// fakeEngine records every invocation and fails those whose argument list
// contains a configured substring.
type fakeEngine struct {
	mu    sync.Mutex
	calls [][]string
	fail  []string
}

func (f *fakeEngine) Run(_ context.Context, args []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()

	joined := strings.Join(args, " ")
	for _, sub := range f.fail {
		if strings.Contains(joined, sub) {
			return errors.New("fake engine failure: " + sub)
		}
	}
	return nil
}

// callsMatching returns recorded invocations whose argv contains sub.
func (f *fakeEngine) callsMatching(sub string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, c := range f.calls {
		if strings.Contains(strings.Join(c, " "), sub) {
			out = append(out, c)
		}
	}
	return out
}

// fakeAnalyzer returns fixed metrics without touching ffprobe.
type fakeAnalyzer struct {
	metrics probe.SourceMetrics
	params  probe.SegmentParams
}

func (f *fakeAnalyzer) Analyze(context.Context, string, float64) (probe.SourceMetrics, probe.SegmentParams) {
	return f.metrics, f.params
}

func uhdAnalyzer() *fakeAnalyzer {
	m := probe.SourceMetrics{FPSNum: 30000, FPSDen: 1001, Width: 3840, Height: 2160}
	return &fakeAnalyzer{metrics: m, params: probe.DeriveSegmentParams(m, 2.0)}
}

func degradedAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{params: probe.FallbackSegmentParams()}
}

// newRunner builds a Runner over a real temp input file and output dir.
func newRunner(t *testing.T, mode config.Mode, eng *fakeEngine, an SourceAnalyzer) *Runner {
	t.Helper()

	inputPath := filepath.Join(t.TempDir(), "in.mp4")
	require.NoError(t, os.WriteFile(inputPath, []byte("not really a video"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Mode = mode
	cfg.InputPath = inputPath
	cfg.OutputDir = filepath.Join(t.TempDir(), "abc123")

	return &Runner{
		Cfg:      &cfg,
		Log:      zerolog.Nop(),
		Engine:   eng,
		Analyzer: an,
		Profile:  hwdetect.Classify("", "linux"), // software fallback
	}
}

func TestRun_SingleStream(t *testing.T) {
	eng := &fakeEngine{}
	r := newRunner(t, config.ModeSingle, eng, uhdAnalyzer())

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, filepath.Join(r.Cfg.OutputDir, "index.m3u8"), res.PlaylistPath)
	assert.Equal(t, filepath.Join(r.Cfg.OutputDir, "poster.jpg"), res.PosterPath)

	// Exactly two invocations: poster + encode.
	assert.Len(t, eng.calls, 2)
	require.Len(t, eng.callsMatching("poster.jpg"), 1)

	encodes := eng.callsMatching("index.m3u8")
	require.Len(t, encodes, 1)
	joined := strings.Join(encodes[0], " ")
	assert.Contains(t, joined, "-g 60") // round(29.97*2)
	assert.Contains(t, joined, "segment_%03d.ts")
	assert.Contains(t, joined, "-c:v libx264")
	assert.NotContains(t, joined, "-vf scale") // no scaling in single mode
}

func TestRun_SingleStream_PosterFailureNonFatal(t *testing.T) {
	eng := &fakeEngine{fail: []string{"poster.jpg"}}
	r := newRunner(t, config.ModeSingle, eng, uhdAnalyzer())

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Empty(t, res.PosterPath)
	assert.NotEmpty(t, res.PlaylistPath)
}

func TestRun_SingleStream_EncodeFailureFatal(t *testing.T) {
	eng := &fakeEngine{fail: []string{"index.m3u8"}}
	r := newRunner(t, config.ModeSingle, eng, uhdAnalyzer())

	res, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, res.State)
}

func TestRun_InputMissing(t *testing.T) {
	eng := &fakeEngine{}
	r := newRunner(t, config.ModeSingle, eng, uhdAnalyzer())
	r.Cfg.InputPath = filepath.Join(t.TempDir(), "nope.mp4")

	res, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrInputNotFound)
	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, eng.calls, "no engine invocation before INIT validation")
}

func TestRun_ABR_FullLadder(t *testing.T) {
	eng := &fakeEngine{}
	r := newRunner(t, config.ModeABR, eng, uhdAnalyzer())

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []string{"4k", "1440p", "1080p", "720p"}, res.Qualities())
	assert.Equal(t, filepath.Join(r.Cfg.OutputDir, "master.m3u8"), res.MasterPath)

	// 1 poster + 4 rung encodes.
	assert.Len(t, eng.calls, 5)

	// Each rung scaled to its own width, segments in its own subdir.
	encodes := eng.callsMatching("1080p/index.m3u8")
	require.Len(t, encodes, 1)
	joined := strings.Join(encodes[0], " ")
	assert.Contains(t, joined, "scale=1920:-2")
	assert.Contains(t, joined, filepath.Join("1080p", "seg_%03d.ts"))
	assert.Contains(t, joined, "-b:v 4500k")
}

func TestRun_ABR_PartialSuccess(t *testing.T) {
	// The 4k and 1440p rungs fail; 1080p and 720p succeed.
	eng := &fakeEngine{fail: []string{"4k/index.m3u8", "1440p/index.m3u8"}}
	r := newRunner(t, config.ModeABR, eng, uhdAnalyzer())

	res, err := r.Run(context.Background())
	require.NoError(t, err, "partial success must still reach DONE")

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []string{"1080p", "720p"}, res.Qualities())

	data, err := os.ReadFile(res.MasterPath)
	require.NoError(t, err)
	master := string(data)
	assert.Contains(t, master, "1080p/index.m3u8")
	assert.Contains(t, master, "720p/index.m3u8")
	assert.NotContains(t, master, "4k/index.m3u8")
	assert.NotContains(t, master, "1440p/index.m3u8")

	// Descending bandwidth: 1080p entry precedes 720p.
	assert.Less(t, strings.Index(master, "1080p"), strings.Index(master, "720p"))
}

func TestRun_ABR_ZeroVariantsFatal(t *testing.T) {
	eng := &fakeEngine{fail: []string{"index.m3u8"}}
	r := newRunner(t, config.ModeABR, eng, uhdAnalyzer())

	res, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrNoVariants)
	assert.Equal(t, StateFailed, res.State)

	_, statErr := os.Stat(filepath.Join(r.Cfg.OutputDir, "master.m3u8"))
	assert.True(t, os.IsNotExist(statErr), "no master playlist with zero variants")
}

func TestRun_ABR_DegradedProbe(t *testing.T) {
	// Unprobeable source: single "original" rung, forced-keyframe expression,
	// no scale filter, master playlist without RESOLUTION.
	eng := &fakeEngine{}
	r := newRunner(t, config.ModeABR, eng, degradedAnalyzer())

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []string{"original"}, res.Qualities())

	encodes := eng.callsMatching("original/index.m3u8")
	require.Len(t, encodes, 1)
	joined := strings.Join(encodes[0], " ")
	assert.Contains(t, joined, "-force_key_frames expr:gte(t,n_forced*2)")
	assert.NotContains(t, joined, "-vf scale")

	data, err := os.ReadFile(res.MasterPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "RESOLUTION")
}

func TestRun_SingleStream_DegradedProbeStillDone(t *testing.T) {
	eng := &fakeEngine{}
	r := newRunner(t, config.ModeSingle, eng, degradedAnalyzer())

	res, err := r.Run(context.Background())
	require.NoError(t, err, "degraded probe must not fail the job")
	assert.Equal(t, StateDone, res.State)

	encodes := eng.callsMatching("index.m3u8")
	require.Len(t, encodes, 1)
	joined := strings.Join(encodes[0], " ")
	assert.Contains(t, joined, "-force_key_frames")
	assert.NotContains(t, joined, "-g ")
}

func TestRun_DryRunInvokesNothing(t *testing.T) {
	for _, mode := range []config.Mode{config.ModeSingle, config.ModeABR} {
		eng := &fakeEngine{}
		r := newRunner(t, mode, eng, uhdAnalyzer())
		r.Cfg.DryRun = true

		res, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StateDone, res.State)
		assert.Empty(t, eng.calls, "mode %s", mode)
	}
}

func TestRun_ABR_CreatesRungDirectories(t *testing.T) {
	eng := &fakeEngine{}
	r := newRunner(t, config.ModeABR, eng, uhdAnalyzer())

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	for _, name := range []string{"4k", "1440p", "1080p", "720p"} {
		fi, err := os.Stat(filepath.Join(r.Cfg.OutputDir, name))
		require.NoError(t, err, "rung dir %s", name)
		assert.True(t, fi.IsDir())
	}
}
