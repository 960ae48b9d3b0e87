package runner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "gowoa/internal/errors"
)

// FailureKind classifies a failed attempt.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureSpawn     FailureKind = apperrors.CodeSpawnFailed
	FailureExit      FailureKind = apperrors.CodeNonZeroExit
	FailureMalformed FailureKind = apperrors.CodeMalformedOutput
	FailureTimeout   FailureKind = apperrors.CodeProcessTimeout
	FailureCanceled  FailureKind = apperrors.CodeCanceled
)

// Outcome is everything observed from one candidate attempt.
type Outcome struct {
	Candidate string        `json:"candidate"`
	Command   string        `json:"command"`
	ExitCode  int           `json:"exit_code"`
	Stdout    string        `json:"stdout"`
	Stderr    string        `json:"stderr"`
	Duration  time.Duration `json:"duration_ns"`
	Kind      FailureKind   `json:"failure,omitempty"`
	// Detail is the spawn, decode or validation error text.
	Detail  string `json:"detail,omitempty"`
	Decoded any    `json:"-"`
}

// OK reports whether the attempt satisfied the success condition
func (o *Outcome) OK() bool { return o.Kind == FailureNone }

// Success is the winning attempt.
type Success struct {
	Candidate string
	// Payload is the raw stdout document.
	Payload []byte
	// Decoded is stdout decoded with numbers kept as json.Number.
	Decoded  any
	Outcome  *Outcome
	Attempts int
}

// ExhaustedError is the terminal failure after every candidate failed. Only
// the last attempt's output is retained.
type ExhaustedError struct {
	Invocation string
	Tried      []string
	Attempts   int
	Last       *Outcome
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: all %d candidate entry points failed [%s]", e.Invocation, len(e.Tried), strings.Join(e.Tried, ", "))
	if e.Last != nil {
		fmt.Fprintf(&b, "; last %s (%s, exit %d)", e.Last.Candidate, e.Last.Kind, e.Last.ExitCode)
		if e.Last.Detail != "" {
			fmt.Fprintf(&b, ": %s", e.Last.Detail)
		}
	}
	return b.String()
}

// AttemptError is a terminal single-attempt failure (timeout or cancellation)
// that stops the fallback sequence.
type AttemptError struct {
	Invocation string
	Outcome    *Outcome
	Attempts   int
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s: candidate %s stopped (%s) after %s", e.Invocation, e.Outcome.Candidate, e.Outcome.Kind, e.Outcome.Duration)
}

// LastOutcome extracts the diagnostic attempt from an executor error.
func LastOutcome(err error) (*Outcome, bool) {
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) && exhausted.Last != nil {
		return exhausted.Last, true
	}
	var attempt *AttemptError
	if errors.As(err, &attempt) {
		return attempt.Outcome, true
	}
	return nil, false
}
