// Package format renders numeric values for display and export.
//
// Rendering is locale-free and deterministic: the same input and precision
// always produce the same string.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals used when callers do not choose one.
const DefaultPrecision = 6

// Glyphs for values that have no ordinary numeric rendering.
const (
	Absent      = "—"
	NaN         = "NaN"
	PosInf      = "∞"
	NegInf      = "-∞"
	Unavailable = "unavailable"
)

// scientificThreshold is the magnitude at and above which floats render in
// scientific notation.
const scientificThreshold = 1e6

var integerLiteral = regexp.MustCompile(`^-?\d+$`)

// Value renders v at the given precision. Integers and integer-literal strings
// (including json.Number) are rendered exactly; other numeric inputs go through
// Float; non-numeric strings are returned unchanged.
func Value(v any, precision int) string {
	switch t := v.(type) {
	case nil:
		return Absent
	case *float64:
		if t == nil {
			return Absent
		}
		return Float(*t, precision)
	case float64:
		return Float(t, precision)
	case float32:
		return Float(float64(t), precision)
	case int:
		return strconv.FormatInt(int64(t), 10)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case json.Number:
		if t == "" {
			return Absent
		}
		return String(string(t), precision)
	case string:
		return String(t, precision)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// String renders a string that may hold a number. Integer literals are kept
// verbatim so large identifiers and counts are never perturbed.
func String(s string, precision int) string {
	trimmed := strings.TrimSpace(s)
	if integerLiteral.MatchString(trimmed) {
		return trimmed
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return s
	}
	return Float(f, precision)
}

// Float renders a float64 using three magnitude bands:
// below 10^-precision it collapses to a signed zero, at or above 1e6 it uses
// scientific notation, and everything else is fixed-point.
// A negative zero keeps its minus sign.
func Float(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	switch {
	case math.IsNaN(v):
		return NaN
	case math.IsInf(v, 1):
		return PosInf
	case math.IsInf(v, -1):
		return NegInf
	}

	abs := math.Abs(v)
	if abs < math.Pow(10, -float64(precision)) {
		zero := strconv.FormatFloat(0, 'f', precision, 64)
		if v < 0 || IsNegativeZero(v) {
			return "-" + zero
		}
		return zero
	}
	if abs >= scientificThreshold {
		return trimExponent(strconv.FormatFloat(v, 'e', precision, 64))
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// IsNegativeZero reports whether v is zero with the sign bit set, detected
// through the sign of its reciprocal.
func IsNegativeZero(v float64) bool {
	if v != 0 {
		return false
	}
	return math.IsInf(1/v, -1)
}

// Metric renders an optional value, using the Unavailable marker when the
// value is not defined.
func Metric(v float64, defined bool, precision int) string {
	if !defined {
		return Unavailable
	}
	return Float(v, precision)
}

// Percent renders v followed by a percent sign.
func Percent(v float64, precision int) string {
	s := Float(v, precision)
	switch s {
	case NaN, PosInf, NegInf:
		return s
	}
	return s + "%"
}

// trimExponent rewrites Go's two-digit exponent ("e+06") to the minimal form
// ("e+6").
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + string(sign) + digits
}
