// Package probe provides ffprobe-based source inspection and the derivation
// of segment-aligned keyframe parameters. A single JSON call per input feeds
// both the segment math and the ABR ladder planner.
package probe
