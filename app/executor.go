package app

import (
	"context"
	"fmt"
	"os"

	"gowoa/adapters/runner"
	"gowoa/domain/core"
	"gowoa/internal/config"
	"gowoa/internal/errors"
)

// Executor runs an invocation's candidate fallback sequence.
type Executor interface {
	Execute(ctx context.Context, inv *runner.Invocation) (*runner.Success, error)
}

// Attempt describes the winning external call for diagnostics
type Attempt struct {
	EntryPoint string  `json:"entry_point"`
	Command    string  `json:"command"`
	Attempts   int     `json:"attempts"`
	Seconds    float64 `json:"seconds"`
}

func attemptOf(s *runner.Success) Attempt {
	return Attempt{
		EntryPoint: s.Candidate,
		Command:    s.Outcome.Command,
		Attempts:   s.Attempts,
		Seconds:    s.Outcome.Duration.Seconds(),
	}
}

func newInvocation(cfg config.RunnerConfig, name string, candidates, args []string, validate runner.Validator) (*runner.Invocation, error) {
	inv, err := runner.NewInvocation(runner.InvocationConfig{
		Name:       name,
		Executable: cfg.Python,
		Workdir:    cfg.Workdir,
		ModuleFlag: cfg.ModuleFlag,
		Candidates: candidates,
		Args:       args,
		PathEnv:    cfg.PathEnv,
		Timeout:    cfg.Timeout,
		WaitDelay:  cfg.WaitDelay,
		Validate:   validate,
	})
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return inv, nil
}

// payloadError converts a typed decode failure of an accepted payload into
// the malformed-output taxonomy class.
func payloadError(what string, err error) error {
	if core.IsPayloadError(err) {
		return &errors.AppError{
			Code:    errors.CodeMalformedOutput,
			Message: fmt.Sprintf("%s output does not match its contract", what),
			Cause:   err,
		}
	}
	return errors.Wrap(err, "failed to decode "+what+" output")
}

// firstExisting returns the first path that exists and is readable.
func firstExisting(paths []string) (string, bool) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		f.Close()
		return p, true
	}
	return "", false
}
