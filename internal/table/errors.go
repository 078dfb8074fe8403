package table

import (
	"errors"
	"fmt"
)

// ErrMissingPlotRow is the cause reported when the plot-group metadata row is absent.
var ErrMissingPlotRow = errors.New("plot row not found")

// InputFormatError indicates the input cannot be used: unreadable file, empty table,
// missing plot row, or an unparseable plot-group id.
type InputFormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InputFormatError) Error() string {
	if e == nil {
		return "invalid input"
	}
	msg := "invalid input"
	if e.Path != "" {
		msg = fmt.Sprintf("invalid input %s", e.Path)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// Fallback records a cell that could not be parsed as a count and was coerced to zero.
type Fallback struct {
	Character string
	Episode   string
	Raw       string
}
