package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Engine runs one external encoder invocation. The orchestrator only ever
// sees this interface, so tests can substitute a fake without a real ffmpeg
// binary. Each call owns its subprocess exclusively; there are no retries.
type Engine interface {
	Run(ctx context.Context, args []string) error
}

// Exec is the production Engine backed by os/exec.
type Exec struct {
	// Verbose tees the subprocess stderr to os.Stderr in real time;
	// otherwise stderr is captured silently for error reporting.
	Verbose bool
}

// Run executes args[0] with the remaining arguments. On failure the returned
// error carries the tail of the subprocess stderr, which is the only
// diagnostic ffmpeg gives at -loglevel error.
func (e *Exec) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if e.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		if tail := stderrTail(stderrBuf.String(), 10); tail != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, tail)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

// stderrTail returns the last n lines of stderr joined into one line.
func stderrTail(stderr string, n int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, " | ")
}
