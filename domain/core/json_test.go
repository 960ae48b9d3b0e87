package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestQuoteNonFinite(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{`{"all":[1.5,NaN,Infinity,-Infinity]}`, `{"all":[1.5,"NaN","Infinity","-Infinity"]}`},
		{`{"note":"NaN stays inside strings"}`, `{"note":"NaN stays inside strings"}`},
		{`{"q":"escaped \" NaN","v":NaN}`, `{"q":"escaped \" NaN","v":"NaN"}`},
	}
	for _, tt := range tests {
		if got := string(QuoteNonFinite([]byte(tt.in))); got != tt.want {
			t.Errorf("QuoteNonFinite(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDecodeJSONKeepsIntegersExact(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"id": 9007199254740993}`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	got := v.(map[string]any)["id"]
	if got != json.Number("9007199254740993") {
		t.Errorf("expected exact json.Number, got %#v", got)
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not json", `{"a":1}{"b":2}`} {
		if _, err := DecodeJSON([]byte(in)); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("DecodeJSON(%q) error = %v, want ErrInvalidPayload", in, err)
		}
	}
}
