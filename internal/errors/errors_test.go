package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnermostCode(t *testing.T) {
	base := New(CodeNonZeroExit, "exit 1")
	wrapped := Wrap(fmt.Errorf("attempt: %w", base), "prediction failed")

	assert.Equal(t, CodeNonZeroExit, GetCode(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrap(stderrors.New("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "context: boom", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestReasonsAreDistinctPerCode(t *testing.T) {
	seen := make(map[string]string)
	for code, reason := range reasons {
		if other, ok := seen[reason]; ok {
			t.Fatalf("codes %s and %s share reason %q", code, other, reason)
		}
		seen[reason] = code
	}
	assert.Equal(t, "unknown", ReasonFor("NOPE"))
	assert.Equal(t, "upload_failed", UploadFailed("move failed", nil).Reason())
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
