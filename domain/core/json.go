package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// nonFiniteLiterals are the bare tokens Python's json module writes for
// non-finite floats. Longest first so "-Infinity" wins over "Infinity".
var nonFiniteLiterals = [][]byte{
	[]byte("-Infinity"),
	[]byte("Infinity"),
	[]byte("NaN"),
}

// QuoteNonFinite rewrites bare NaN/Infinity/-Infinity tokens outside string
// literals into quoted strings so the document parses as standard JSON.
// Input without such tokens is returned unchanged.
func QuoteNonFinite(data []byte) []byte {
	if !bytes.Contains(data, []byte("NaN")) && !bytes.Contains(data, []byte("Infinity")) {
		return data
	}

	out := make([]byte, 0, len(data)+16)
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch c {
			case '\\':
				if i+1 < len(data) {
					i++
					out = append(out, data[i])
				}
			case '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		matched := false
		for _, lit := range nonFiniteLiterals {
			if bytes.HasPrefix(data[i:], lit) {
				out = append(out, '"')
				out = append(out, lit...)
				out = append(out, '"')
				i += len(lit) - 1
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, c)
		}
	}
	return out
}

// DecodeJSON decodes exactly one JSON document, keeping numbers as
// json.Number so large integers stay exact.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(QuoteNonFinite(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON document", ErrInvalidPayload)
	}
	return v, nil
}
