// Package ladder plans the set of ABR output rungs from source dimensions.
package ladder

// Rung is one planned output variant. Name doubles as the output
// subdirectory and the label in the qualities_generated report field.
type Rung struct {
	Name        string
	Width       int
	Height      int
	BitrateKbps int // target and maxrate; bufsize is 2x
}

// BandwidthBps returns the estimated bandwidth for the master playlist.
func (r Rung) BandwidthBps() int {
	return r.BitrateKbps * 1000
}

// catalog is the fixed rung table, highest first. Order is preserved into
// the master playlist (HLS convention: higher-bandwidth variants first).
var catalog = []Rung{
	{Name: "8k", Width: 7680, Height: 4320, BitrateKbps: 40000},
	{Name: "4k", Width: 3840, Height: 2160, BitrateKbps: 16000},
	{Name: "1440p", Width: 2560, Height: 1440, BitrateKbps: 8000},
	{Name: "1080p", Width: 1920, Height: 1080, BitrateKbps: 4500},
	{Name: "720p", Width: 1280, Height: 720, BitrateKbps: 2500},
}

// OriginalRungName labels the fallback rung emitted when the source is
// narrower than the smallest catalog entry.
const OriginalRungName = "original"

// Plan selects the rungs to generate for a source of the given dimensions.
// A catalog rung is included iff its canonical width fits within the source
// (strict no-upscale). When nothing fits, including an unprobeable source
// with zero dimensions, exactly one "original" rung at source dimensions is
// returned, so at least one playable output always exists. Never empty.
func Plan(srcWidth, srcHeight int) []Rung {
	var rungs []Rung
	for _, r := range catalog {
		if r.Width <= srcWidth {
			rungs = append(rungs, r)
		}
	}

	if len(rungs) == 0 {
		rungs = append(rungs, Rung{
			Name:        OriginalRungName,
			Width:       srcWidth,
			Height:      srcHeight,
			BitrateKbps: originalBitrateKbps(srcHeight),
		})
	}
	return rungs
}

// originalBitrateKbps estimates a target bitrate for the fallback rung by
// source height tier, so the master playlist always carries a BANDWIDTH
// value even for off-catalog sources.
func originalBitrateKbps(height int) int {
	switch {
	case height >= 1080:
		return 4500
	case height >= 720:
		return 2500
	default:
		return 1000
	}
}
