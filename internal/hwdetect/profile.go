package hwdetect

import "github.com/backmassage/hlspress/internal/ffmpeg"

// Backend identifies the hardware encoder family behind a profile.
type Backend string

const (
	BackendNVENC        Backend = "nvenc"
	BackendVideoToolbox Backend = "videotoolbox"
	BackendAMF          Backend = "amf"
	BackendSoftware     Backend = "x264"
)

// EncoderProfile is the immutable invocation record for one backend: the
// ffmpeg encoder identifier plus its backend-specific options. Exactly one
// profile is selected per process run and threaded through the orchestrator
// as a value; nothing outside this package inspects raw listing text.
type EncoderProfile struct {
	Backend Backend
	Encoder string // ffmpeg encoder identifier, e.g. "h264_nvenc".
	Options []ffmpeg.Opt
}

func nvencProfile() EncoderProfile {
	return EncoderProfile{
		Backend: BackendNVENC,
		Encoder: "h264_nvenc",
		Options: []ffmpeg.Opt{
			{Key: "-preset", Value: "p4"}, // balanced
			{Key: "-rc", Value: "vbr"},
			{Key: "-cq", Value: "23"},
			{Key: "-pix_fmt", Value: "yuv420p"},
		},
	}
}

func videoToolboxProfile() EncoderProfile {
	return EncoderProfile{
		Backend: BackendVideoToolbox,
		Encoder: "h264_videotoolbox",
		Options: []ffmpeg.Opt{
			{Key: "-q:v", Value: "60"}, // 0-100 scale
			{Key: "-allow_sw", Value: "1"},
			{Key: "-pix_fmt", Value: "yuv420p"},
		},
	}
}

func amfProfile() EncoderProfile {
	return EncoderProfile{
		Backend: BackendAMF,
		Encoder: "h264_amf",
		Options: []ffmpeg.Opt{
			{Key: "-usage", Value: "transcoding"},
		},
	}
}

func softwareProfile() EncoderProfile {
	return EncoderProfile{
		Backend: BackendSoftware,
		Encoder: "libx264",
		Options: []ffmpeg.Opt{
			{Key: "-preset", Value: "veryfast"},
			{Key: "-crf", Value: "23"},
			{Key: "-pix_fmt", Value: "yuv420p"},
		},
	}
}
