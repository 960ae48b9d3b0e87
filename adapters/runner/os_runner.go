package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"gowoa/ports"
)

// OSRunner runs processes with os/exec. Stdin is left nil so the child reads
// from the null device; stdout and stderr are copied into buffers and Wait
// returns only after both copies finish.
type OSRunner struct{}

// NewOSRunner creates the production process runner
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

var _ ports.ProcessRunner = (*OSRunner)(nil)

// Run executes spec to completion. On timeout or cancellation the child is
// killed and the output gathered so far is returned.
func (r *OSRunner) Run(ctx context.Context, spec ports.ProcessSpec) ports.ProcessResult {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = nil
	if spec.WaitDelay > 0 {
		cmd.WaitDelay = spec.WaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return ports.ProcessResult{ExitCode: -1, Err: err, Duration: time.Since(start)}
	}
	err := cmd.Wait()

	res := ports.ProcessResult{
		Started:  true,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err == nil {
		return res
	}

	res.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}

	switch {
	case ctx.Err() != nil:
		res.Err = ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.Err = runCtx.Err()
	case exitErr == nil:
		res.Err = err
	}
	return res
}
