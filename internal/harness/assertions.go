package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when a case does not match its expectation.
type AssertionError struct {
	Case     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Case)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertCase compares what a case returned against its expectation.
// Ids must match exactly and in order.
func assertCase(c Case, r CaseResult) *AssertionError {
	if c.ExpectError != "" {
		if r.Error == c.ExpectError {
			return nil
		}
		return &AssertionError{
			Case:     c.Name,
			Expected: fmt.Sprintf("%s error", c.ExpectError),
			Actual:   describe(r),
		}
	}

	if r.Error != "" || !slices.Equal(c.Expect, r.IDs) {
		return &AssertionError{
			Case:     c.Name,
			Expected: fmt.Sprintf("ids %v", c.Expect),
			Actual:   describe(r),
		}
	}
	return nil
}

func describe(r CaseResult) string {
	if r.Error != "" {
		return fmt.Sprintf("%s error", r.Error)
	}
	return fmt.Sprintf("ids %v", r.IDs)
}
