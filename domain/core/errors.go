package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound = errors.New("resource not found")

	// Payload validation errors
	ErrInvalidPayload = errors.New("invalid analysis payload")
	ErrMissingKeys    = fmt.Errorf("%w: missing mandatory keys", ErrInvalidPayload)
	ErrNotAnObject    = fmt.Errorf("%w: top-level value is not a JSON object", ErrInvalidPayload)
	ErrUnknownLabel   = errors.New("unrecognized class label")

	// Benchmark errors
	ErrLengthMismatch = errors.New("paired sequences differ in length")
	ErrEmptyRunSet    = errors.New("run set is empty")
)

// MissingKeysError lists the mandatory keys absent from a decoded payload.
type MissingKeysError struct {
	Contract string
	Keys     []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("%s payload missing mandatory keys: %s", e.Contract, strings.Join(e.Keys, ", "))
}

func (e *MissingKeysError) Unwrap() error {
	return ErrMissingKeys
}

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewMissingKeysError(contract string, keys []string) error {
	return &MissingKeysError{Contract: contract, Keys: keys}
}

func NewLabelError(value string) error {
	return fmt.Errorf("%w: %q (expected Benign/Malignant, B/M, or 0/1)", ErrUnknownLabel, value)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsPayloadError(err error) bool {
	return errors.Is(err, ErrInvalidPayload)
}
