package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Reason returns the machine-readable reason string for the error's code.
func (e *AppError) Reason() string {
	return ReasonFor(e.Code)
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError in the chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if the chain holds an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"

	// External process taxonomy
	CodeSpawnFailed      = "PROCESS_SPAWN_FAILED"
	CodeNonZeroExit      = "NONZERO_EXIT"
	CodeMalformedOutput  = "MALFORMED_OUTPUT"
	CodeProcessTimeout   = "PROCESS_TIMEOUT"
	CodeCanceled         = "CANCELED"
	CodeCandidatesFailed = "ALL_CANDIDATES_EXHAUSTED"
	CodeUploadFailed     = "UPLOAD_FAILED"
)

var reasons = map[string]string{
	CodeConfigInvalid:    "config_invalid",
	CodeValidationError:  "validation_error",
	CodeNotFound:         "not_found",
	CodeInternalError:    "internal_error",
	CodeInvalidInput:     "invalid_input",
	CodeSpawnFailed:      "process_spawn_failed",
	CodeNonZeroExit:      "nonzero_exit",
	CodeMalformedOutput:  "malformed_output",
	CodeProcessTimeout:   "process_timeout",
	CodeCanceled:         "canceled",
	CodeCandidatesFailed: "all_candidates_exhausted",
	CodeUploadFailed:     "upload_failed",
}

// ReasonFor maps an error code to its reason string. Unknown codes map to
// "unknown".
func ReasonFor(code string) string {
	if r, ok := reasons[code]; ok {
		return r
	}
	return "unknown"
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func UploadFailed(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeUploadFailed,
		Message: message,
		Cause:   cause,
	}
}
