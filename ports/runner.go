package ports

import (
	"context"
	"time"
)

// ProcessSpec describes one external process launch.
type ProcessSpec struct {
	Path string
	Args []string
	Dir  string
	// Env is the complete environment of the child, KEY=VALUE form.
	Env []string
	// Timeout bounds the run; zero means no limit.
	Timeout time.Duration
	// WaitDelay bounds how long output draining may continue after the
	// process is killed.
	WaitDelay time.Duration
}

// ProcessResult is everything observed from one run. Err is set when the
// process could not be started or was terminated; a non-zero exit on its own
// is reported through ExitCode only.
type ProcessResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	Started  bool
	TimedOut bool
	Err      error
}

// ProcessRunner runs external processes to completion. Implementations must
// close the child's stdin and fully drain both output streams before waiting.
type ProcessRunner interface {
	Run(ctx context.Context, spec ProcessSpec) ProcessResult
}
