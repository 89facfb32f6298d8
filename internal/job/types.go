package job

import (
	"github.com/backmassage/hlspress/internal/config"
	"github.com/backmassage/hlspress/internal/ladder"
)

// State is the orchestration state machine position. A run moves
// INIT → POSTER → ENCODING → ASSEMBLING → DONE, or to FAILED from any state
// after INIT.
type State int

const (
	StateInit State = iota
	StatePoster
	StateEncoding
	StateAssembling
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePoster:
		return "poster"
	case StateEncoding:
		return "encoding"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// RungOutcome records one rung's encode result. Exactly one of PlaylistPath
// or Err is set.
type RungOutcome struct {
	Rung         ladder.Rung
	PlaylistPath string
	Err          error
}

// Result is the accumulator for one run, owned exclusively by the Runner.
// Concurrent rungs collect into disjoint RungOutcome slots; the Runner
// merges after all tasks join and finalizes exactly once.
type Result struct {
	State     State
	Mode      config.Mode
	OutputDir string

	// Poster path, empty when extraction failed (best-effort).
	PosterPath string

	// Single-stream mode.
	PlaylistPath string

	// ABR mode.
	MasterPath string
	Rungs      []RungOutcome
}

// Succeeded returns the outcomes of rungs whose encode completed, in plan
// (descending-bandwidth) order.
func (r *Result) Succeeded() []RungOutcome {
	var out []RungOutcome
	for _, o := range r.Rungs {
		if o.Err == nil {
			out = append(out, o)
		}
	}
	return out
}

// Qualities returns the names of successful rungs, in plan order.
func (r *Result) Qualities() []string {
	var out []string
	for _, o := range r.Succeeded() {
		out = append(out, o.Rung.Name)
	}
	return out
}
