package graph

import (
	"encoding/json"
	"regexp"
)

// NumericPattern is the grammar a text payload must match to be treated as a
// number: optional sign, digits, optional fractional part, optional exponent.
// Payloads that do not match coerce to NULL in numeric comparisons.
const NumericPattern = `^[+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`

var numericRe = regexp.MustCompile(NumericPattern)

// IsNumeric reports whether payload matches NumericPattern.
func IsNumeric(payload string) bool {
	return numericRe.MatchString(payload)
}

// FormatCheckbox returns the stored text form of a checkbox payload.
func FormatCheckbox(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// FormatPoint returns the canonical stored text form of a point payload:
// a two-element JSON array with ECMAScript number formatting, e.g. "[1.5,-2]".
func FormatPoint(p [2]float64) string {
	// encoding/json formats float64 the way ECMAScript's JSON.stringify does.
	b, err := json.Marshal(p)
	if err != nil {
		// Only NaN and Inf fail to marshal; neither is a storable point.
		return ""
	}
	return string(b)
}
