package ffmpeg

import (
	"fmt"
	"strconv"
)

// EncodeSpec describes one segmented-output encode invocation. The job
// orchestrator fills it from the encoder profile, derived segment params,
// and (in ABR mode) the target rung.
type EncodeSpec struct {
	InputPath      string
	PlaylistPath   string // Output .m3u8 path; ffmpeg writes segments next to it.
	SegmentPattern string // e.g. "<dir>/seg_%03d.ts".

	SegmentSeconds float64
	AudioCodec     string
	AudioBitrate   string

	// Video encoding. Encoder is the ffmpeg encoder identifier; ProfileOpts
	// carries its backend-specific options, SegmentOpts the GOP/keyframe
	// controls. ProfileOpts wins key collisions (see [Merge]).
	Encoder     string
	SegmentOpts []Opt
	ProfileOpts []Opt

	// ABR rung parameters. ScaleWidth 0 means no scaling (single-stream
	// mode, or the "original" fallback rung on an unprobeable source).
	// BitrateKbps 0 means quality-driven rate control from the profile.
	ScaleWidth  int
	BitrateKbps int
}

// BuildEncode constructs the complete ffmpeg argument slice for one
// segmented-output encode. Shared preamble, then input, scale filter, video
// codec and rate control, then the merged option set, then the output path.
func BuildEncode(spec *EncodeSpec) []string {
	args := preamble()
	args = append(args, "-i", spec.InputPath)

	// scale=-2 keeps the aspect ratio and an even height, which the
	// encoders require for yuv420p.
	if spec.ScaleWidth > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", spec.ScaleWidth))
	}

	args = append(args, "-c:v", spec.Encoder)

	if spec.BitrateKbps > 0 {
		rate := strconv.Itoa(spec.BitrateKbps) + "k"
		buf := strconv.Itoa(spec.BitrateKbps*2) + "k"
		args = append(args,
			"-b:v", rate,
			"-maxrate", rate,
			"-bufsize", buf,
		)
	}

	merged := Merge(containerOpts(spec), spec.SegmentOpts, spec.ProfileOpts)
	args = append(args, Args(merged)...)

	args = append(args, spec.PlaylistPath)
	return args
}

// BuildPoster constructs the argument slice for extracting the poster frame:
// the first decodable frame at high JPEG quality.
func BuildPoster(inputPath, posterPath string) []string {
	args := preamble()
	return append(args,
		"-i", inputPath,
		"-vf", `select=gte(n\,0)`,
		"-frames:v", "1",
		"-q:v", "2",
		posterPath,
	)
}

func preamble() []string {
	return []string{"ffmpeg", "-hide_banner", "-nostdin", "-y", "-loglevel", "error"}
}

// containerOpts returns the lowest-precedence option set: HLS segmentation
// and audio defaults fixed by the output contract.
func containerOpts(spec *EncodeSpec) []Opt {
	return []Opt{
		{"-f", "hls"},
		{"-hls_time", strconv.FormatFloat(spec.SegmentSeconds, 'f', -1, 64)},
		{"-hls_list_size", "0"}, // keep every segment in the playlist
		{"-hls_segment_filename", spec.SegmentPattern},
		{"-c:a", spec.AudioCodec},
		{"-b:a", spec.AudioBitrate},
	}
}
