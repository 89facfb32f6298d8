// Package playlist assembles the HLS master playlist.
package playlist

import (
	"fmt"
	"strings"

	"github.com/google/renameio/v2"
)

// Variant is one successful rung to list in the master playlist. Callers
// pass variants in descending-bandwidth order; this package preserves it.
type Variant struct {
	Width        int
	Height       int
	BandwidthBps int
	URI          string // relative to the master playlist, e.g. "1080p/index.m3u8"
}

// Render produces the master playlist body. RESOLUTION is omitted when the
// dimensions are unknown (degraded-probe "original" rung).
func Render(variants []Variant) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")

	for _, v := range variants {
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d", v.BandwidthBps)
		if v.Width > 0 && v.Height > 0 {
			fmt.Fprintf(&b, ",RESOLUTION=%dx%d", v.Width, v.Height)
		}
		b.WriteByte('\n')
		b.WriteString(v.URI)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteMaster atomically writes the master playlist to path, so a crash or
// cancellation mid-write never leaves a truncated master.m3u8 for players
// to fetch.
func WriteMaster(path string, variants []Variant) error {
	if err := renameio.WriteFile(path, []byte(Render(variants)), 0o644); err != nil {
		return fmt.Errorf("write master playlist: %w", err)
	}
	return nil
}
