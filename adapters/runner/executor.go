package runner

import (
	"context"
	"errors"

	"gowoa/domain/core"
	"gowoa/internal"
	apperrors "gowoa/internal/errors"
	"gowoa/ports"
)

// Executor tries an invocation's candidates strictly in order and stops at
// the first attempt that exits 0 with a valid JSON document on stdout.
type Executor struct {
	runner ports.ProcessRunner
	logger *internal.Logger
}

// NewExecutor creates an executor over runner. A nil logger uses the default.
func NewExecutor(runner ports.ProcessRunner, logger *internal.Logger) *Executor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Executor{runner: runner, logger: logger}
}

// Execute runs the fallback sequence. Terminal failures are returned as an
// *apperrors.AppError wrapping *ExhaustedError or *AttemptError.
func (e *Executor) Execute(ctx context.Context, inv *Invocation) (*Success, error) {
	candidates := inv.Candidates()
	if len(candidates) == 0 {
		e.logger.Error("[Executor] %s: no candidate entry points configured", inv.Name())
		return nil, exhausted(inv, nil, 0, nil)
	}

	env := inv.Environ()
	var last *Outcome
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, canceled(inv, candidate, i, err)
		}

		e.logger.Debug("[Executor] %s attempt %d/%d: %s", inv.Name(), i+1, len(candidates), inv.CommandLine(candidate))
		res := e.runner.Run(ctx, ports.ProcessSpec{
			Path:      inv.executable,
			Args:      inv.Argv(candidate),
			Dir:       inv.workdir,
			Env:       env,
			Timeout:   inv.timeout,
			WaitDelay: inv.waitDelay,
		})
		out := e.evaluate(inv, candidate, res)
		attempts := i + 1

		switch out.Kind {
		case FailureNone:
			e.logger.Info("[Executor] %s succeeded with %s after %d attempt(s) in %s", inv.Name(), candidate, attempts, out.Duration)
			return &Success{
				Candidate: candidate,
				Payload:   res.Stdout,
				Decoded:   out.Decoded,
				Outcome:   out,
				Attempts:  attempts,
			}, nil
		case FailureTimeout:
			e.logger.Error("[Executor] %s: %s timed out after %s", inv.Name(), candidate, inv.timeout)
			return nil, &apperrors.AppError{
				Code:    apperrors.CodeProcessTimeout,
				Message: "external process timed out",
				Cause:   &AttemptError{Invocation: inv.Name(), Outcome: out, Attempts: attempts},
			}
		case FailureCanceled:
			e.logger.Warn("[Executor] %s: %s canceled by caller", inv.Name(), candidate)
			return nil, &apperrors.AppError{
				Code:    apperrors.CodeCanceled,
				Message: "request canceled",
				Cause:   &AttemptError{Invocation: inv.Name(), Outcome: out, Attempts: attempts},
			}
		}

		e.logger.Warn("[Executor] %s: %s failed (%s, exit %d): %s", inv.Name(), candidate, out.Kind, out.ExitCode, out.Detail)
		last = out
	}

	e.logger.Error("[Executor] %s: all %d candidates failed", inv.Name(), len(candidates))
	return nil, exhausted(inv, candidates, len(candidates), last)
}

func (e *Executor) evaluate(inv *Invocation, candidate string, res ports.ProcessResult) *Outcome {
	out := &Outcome{
		Candidate: candidate,
		Command:   inv.CommandLine(candidate),
		ExitCode:  res.ExitCode,
		Stdout:    string(res.Stdout),
		Stderr:    string(res.Stderr),
		Duration:  res.Duration,
	}

	switch {
	case res.TimedOut:
		out.Kind = FailureTimeout
		out.Detail = "timeout exceeded"
		return out
	case errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded):
		out.Kind = FailureCanceled
		out.Detail = res.Err.Error()
		return out
	case !res.Started:
		out.Kind = FailureSpawn
		if res.Err != nil {
			out.Detail = res.Err.Error()
		}
		return out
	case res.Err != nil || res.ExitCode != 0:
		out.Kind = FailureExit
		if res.Err != nil {
			out.Detail = res.Err.Error()
		}
		return out
	}

	decoded, err := core.DecodeJSON(res.Stdout)
	if err != nil {
		out.Kind = FailureMalformed
		out.Detail = err.Error()
		return out
	}
	if inv.validate != nil {
		if err := inv.validate(decoded); err != nil {
			out.Kind = FailureMalformed
			out.Detail = err.Error()
			return out
		}
	}
	out.Decoded = decoded
	return out
}

func exhausted(inv *Invocation, tried []string, attempts int, last *Outcome) error {
	return &apperrors.AppError{
		Code:    apperrors.CodeCandidatesFailed,
		Message: "external analysis failed",
		Cause: &ExhaustedError{
			Invocation: inv.Name(),
			Tried:      tried,
			Attempts:   attempts,
			Last:       last,
		},
	}
}

func canceled(inv *Invocation, candidate string, attempts int, err error) error {
	return &apperrors.AppError{
		Code:    apperrors.CodeCanceled,
		Message: "request canceled",
		Cause: &AttemptError{
			Invocation: inv.Name(),
			Outcome:    &Outcome{Candidate: candidate, ExitCode: -1, Kind: FailureCanceled, Detail: err.Error()},
			Attempts:   attempts,
		},
	}
}
