// internal/domain/homework/errors.go
package homework

import (
	"fmt"
	"strings"
)

// ShapeError reports a structurally invalid API payload or record.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "invalid API response: " + e.Reason
}

// MissingFieldError reports a homework record without a required field.
// Fields lists the accepted names; any one of them would have satisfied the check.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("homework record has no %q field", e.Fields[0])
	}
	return fmt.Sprintf("homework record has none of the fields %s", strings.Join(quoteAll(e.Fields), ", "))
}

// UnknownStatusError reports a status that has no verdict.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
