package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gowoa/adapters/runner"
	"gowoa/internal/errors"
)

// statusClientClosed is reported when the caller went away mid-request.
const statusClientClosed = 499

// errorResponse carries the taxonomy code and, for external failures, the
// last attempt's captured output.
type errorResponse struct {
	Error       string          `json:"error"`
	Code        string          `json:"code"`
	Reason      string          `json:"reason"`
	LastAttempt *runner.Outcome `json:"last_attempt,omitempty"`
}

// StatusFor maps an error code to its HTTP status
func StatusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeCandidatesFailed, errors.CodeSpawnFailed, errors.CodeNonZeroExit, errors.CodeMalformedOutput:
		return http.StatusBadGateway
	case errors.CodeProcessTimeout:
		return http.StatusGatewayTimeout
	case errors.CodeCanceled:
		return statusClientClosed
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == "UNKNOWN" {
		code = errors.CodeInternalError
	}
	status := StatusFor(code)
	if status >= 500 {
		s.logger.Error("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		s.logger.Warn("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}

	resp := errorResponse{Error: err.Error(), Code: code, Reason: errors.ReasonFor(code)}
	if last, ok := runner.LastOutcome(err); ok {
		resp.LastAttempt = last
	}
	c.AbortWithStatusJSON(status, resp)
}
