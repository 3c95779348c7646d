package multibox

// errors.go holds the error kinds reported while a scheme is loaded and validated.
// None of them is produced once a run has started.

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned when a run configuration names an ordering mode
// or random source that does not exist
var ErrUnknownMode = errors.New("unknown mode")

// ErrHorizonRange is returned when a horizon cannot be represented on the
// event clock that chronological mode runs on
var ErrHorizonRange = errors.New("horizon beyond the event clock range")

// InputFormatError reports a node or transition file that cannot be parsed.
// Row and Column are 1-based; zero means the whole file (or row) is at fault
type InputFormatError struct {
	File   string
	Row    int
	Column int
	Msg    string
	Err    error
}

func (e *InputFormatError) Error() string {
	loc := e.File
	if e.Row > 0 {
		loc += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Column > 0 {
		loc += fmt.Sprintf(" column %d", e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("input format: %s: %s: %v", loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("input format: %s: %s", loc, e.Msg)
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// StochasticValidationError reports a transition matrix that is not row-stochastic,
// or whose shape does not agree with the node table.  Row is the 1-based node id
// of the offending row, Column the 0-based destination (0 is exit); -1 when not applicable
type StochasticValidationError struct {
	Row    int
	Column int
	Msg    string
}

func (e *StochasticValidationError) Error() string {
	switch {
	case e.Row > 0 && e.Column >= 0:
		return fmt.Sprintf("stochastic validation: transitions row %d column %d: %s", e.Row, e.Column, e.Msg)
	case e.Row > 0:
		return fmt.Sprintf("stochastic validation: transitions row %d: %s", e.Row, e.Msg)
	}
	return fmt.Sprintf("stochastic validation: %s", e.Msg)
}

// DomainError reports a rate outside of its domain for a node
type DomainError struct {
	Node  int
	Field string
	Value float64
	Msg   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain: node %d %s=%g: %s", e.Node, e.Field, e.Value, e.Msg)
}
