// Package check provides system diagnostics (--check mode): ffmpeg/ffprobe
// availability, the H.264 encoder listing, and test encodes for the selected
// backend and AAC.
package check

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backmassage/hlspress/internal/ffmpeg"
	"github.com/backmassage/hlspress/internal/hwdetect"
)

// RunCheck runs the interactive --check flow. Informational only; it logs
// each finding and returns false when a required tool is missing or the
// selected backend fails its test encode.
func RunCheck(ctx context.Context, log zerolog.Logger) bool {
	log.Info().Msg("=== System Check ===")

	ok := checkBinary(log, "ffmpeg")
	ok = checkBinary(log, "ffprobe") && ok
	if !ok {
		return false
	}

	listH264Encoders(log)

	profile, err := hwdetect.Detect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("encoder detection failed")
		return false
	}
	log.Info().Str("backend", string(profile.Backend)).Str("encoder", profile.Encoder).
		Msg("selected encoder profile")

	if testEncode(profile) {
		log.Info().Str("encoder", profile.Encoder).Msg("test encode OK")
	} else {
		log.Error().Str("encoder", profile.Encoder).Msg("test encode failed")
		ok = false
	}

	if testAAC() {
		log.Info().Msg("AAC encoder OK")
	} else {
		log.Error().Msg("AAC encoder test failed")
		ok = false
	}

	return ok
}

// checkBinary verifies name is on PATH and logs its version line.
func checkBinary(log zerolog.Logger, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Error().Str("binary", name).Msg("not found on PATH")
		return false
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn().Str("binary", name).Err(err).Msg("found but -version failed")
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info().Str("binary", name).Str("version", firstLine).Msg("found")
	return true
}

// listH264Encoders logs every H.264 encoder ffmpeg reports.
func listH264Encoders(log zerolog.Logger) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn().Err(err).Msg("could not list encoders")
		return
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(strings.ToLower(line), "h264") {
			log.Info().Msg("  " + strings.TrimSpace(line))
		}
	}
}

// testEncode runs a minimal encode with the selected profile against a
// synthetic source to verify the backend actually works, not just that it
// appears in the listing.
func testEncode(profile hwdetect.EncoderProfile) bool {
	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", profile.Encoder,
	}
	args = append(args, ffmpeg.Args(profile.Options)...)
	args = append(args, "-f", "null", "-")
	return runSilent("ffmpeg", args...)
}

// testAAC runs a minimal AAC encode to verify the audio encoder works.
func testAAC() bool {
	return runSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	)
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
