package core

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// RequestID identifies one analysis request end to end (logs, upload names,
// response payloads).
type RequestID ID

func (id RequestID) String() string { return ID(id).String() }

// NewRequestID creates a time-ordered request identifier
func NewRequestID() RequestID {
	return RequestID(NewID())
}

// ParseRequestID parses a string into RequestID
func ParseRequestID(s string) (RequestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid request ID %q: %w", s, err)
	}
	return RequestID(s), nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9.\-_]`)

// SanitizeFileName keeps only the base name and strips characters outside
// [A-Za-z0-9._-].
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return unsafeFileChars.ReplaceAllString(base, "")
}

// UploadFileName builds a collision-free stored name for an uploaded image:
// img_<request-id>-<sanitized original name>.
func UploadFileName(id RequestID, original string) string {
	clean := SanitizeFileName(original)
	if clean == "" {
		return "img_" + id.String()
	}
	return "img_" + id.String() + "-" + clean
}
