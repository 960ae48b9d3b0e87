package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseFloatTag parses a numeric string or one of the non-finite tags
// NaN, Infinity and -Infinity (also inf, +inf, +infinity) in any case.
func ParseFloatTag(tag string) (float64, error) {
	text := strings.TrimSpace(tag)
	switch strings.ToLower(text) {
	case "nan":
		return math.NaN(), nil
	case "infinity", "inf", "+infinity", "+inf":
		return math.Inf(1), nil
	case "-infinity", "-inf":
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not numeric", tag)
	}
	return v, nil
}

// Float is a float64 that also decodes from numeric strings, the non-finite
// tags and null (as NaN). Bare NaN/Infinity tokens arrive as tags once the
// document has been through QuoteNonFinite.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	text := bytes.TrimSpace(data)
	if string(text) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	if len(text) > 0 && text[0] == '"' {
		var tag string
		if err := json.Unmarshal(text, &tag); err != nil {
			return err
		}
		v, err := ParseFloatTag(tag)
		if err != nil {
			return err
		}
		*f = Float(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return fmt.Errorf("%s is not numeric", text)
	}
	*f = Float(v)
	return nil
}

// Ptr converts an optional Float to an optional float64
func (f *Float) Ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// Number is a json.Number that also decodes from numeric strings and the
// non-finite tags. Non-finite values are stored as NaN, +Inf and -Inf so
// json.Number.Float64 parses them; finite text is kept verbatim. Null
// leaves the number empty.
type Number json.Number

func (n *Number) UnmarshalJSON(data []byte) error {
	text := bytes.TrimSpace(data)
	switch {
	case string(text) == "null":
		return nil
	case len(text) > 0 && text[0] == '"':
		var tag string
		if err := json.Unmarshal(text, &tag); err != nil {
			return err
		}
		v, err := ParseFloatTag(tag)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			*n = Number(strconv.FormatFloat(v, 'g', -1, 64))
		} else {
			*n = Number(strings.TrimSpace(tag))
		}
		return nil
	}
	if _, err := strconv.ParseFloat(string(text), 64); err != nil {
		return fmt.Errorf("%s is not numeric", text)
	}
	*n = Number(text)
	return nil
}

// JSONNumber returns n as a json.Number
func (n Number) JSONNumber() json.Number {
	return json.Number(n)
}
