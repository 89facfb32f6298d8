// Package hwdetect selects the encoder backend for a run by querying the
// external engine's encoder listing once and classifying it with a fixed
// priority order.
package hwdetect

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrEngineNotFound is returned when the ffmpeg binary cannot be located.
// This is fatal for the whole process; "no hardware found" is not an error
// and resolves to the software profile instead.
var ErrEngineNotFound = errors.New("ffmpeg not found on PATH")

// Detect queries `ffmpeg -encoders` and returns the selected profile.
// One subprocess invocation, no persistent state.
func Detect(ctx context.Context) (EncoderProfile, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return EncoderProfile{}, ErrEngineNotFound
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders")
	out, err := cmd.Output()
	if err != nil {
		return EncoderProfile{}, fmt.Errorf("list encoders: %w", err)
	}

	return Classify(string(out), runtime.GOOS), nil
}

// Classify maps encoder listing text to a profile. Evaluated in fixed
// priority order, first match wins; total (always returns a profile) and
// deterministic for a given listing and platform. Pure function so the
// stringly-typed listing scan stays testable without an ffmpeg binary.
func Classify(listing, goos string) EncoderProfile {
	switch {
	case strings.Contains(listing, "h264_nvenc"):
		return nvencProfile()
	case goos == "darwin" && strings.Contains(listing, "h264_videotoolbox"):
		return videoToolboxProfile()
	case strings.Contains(listing, "h264_amf"):
		return amfProfile()
	}
	return softwareProfile()
}
