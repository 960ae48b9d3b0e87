package core

import (
	"strings"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestParseRequestID tests request ID parsing
func TestParseRequestID(t *testing.T) {
	id := NewRequestID()
	parsed, err := ParseRequestID(" " + id.String() + " ")
	if err != nil {
		t.Fatalf("Expected valid request ID, got error: %v", err)
	}
	if parsed != id {
		t.Errorf("Expected %s, got %s", id, parsed)
	}

	if _, err := ParseRequestID(""); err == nil {
		t.Error("Expected error for empty request ID")
	}
	if _, err := ParseRequestID("not-a-uuid"); err == nil {
		t.Error("Expected error for malformed request ID")
	}
}

// TestSanitizeFileName tests upload name cleaning
func TestSanitizeFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"mammo 01.tif", "mammo01.tif"},
		{"../../etc/passwd", "passwd"},
		{`C:\uploads\scan(1).png`, "scan1.png"},
		{"ok_name-2.jpeg", "ok_name-2.jpeg"},
		{"", ""},
	}
	for _, c := range cases {
		if got := SanitizeFileName(c.in); got != c.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestUploadFileName tests stored upload names
func TestUploadFileName(t *testing.T) {
	id := RequestID("0190a6f2-0000-7000-8000-000000000000")
	got := UploadFileName(id, "scan 7.tif")
	if got != "img_0190a6f2-0000-7000-8000-000000000000-scan7.tif" {
		t.Errorf("unexpected upload name %q", got)
	}
	if !strings.HasPrefix(UploadFileName(id, "///"), "img_") {
		t.Error("Expected img_ prefix for empty original name")
	}
}
