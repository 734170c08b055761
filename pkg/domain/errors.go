package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMachine matches every construction failure of NewMachine.
var ErrInvalidMachine = errors.New("invalid machine definition")

var (
	ErrBlankNotInTapeAlphabet = errors.New("blank symbol must be included in the tape alphabet")
	ErrInputNotSubset         = errors.New("input alphabet must be a subset of the tape alphabet")
	ErrStartUndeclared        = errors.New("start state must be included in the set of states")
	ErrAcceptUndeclared       = errors.New("accept state must be included in the set of states")
	ErrUndeclaredState        = errors.New("transition references an undeclared state")
	ErrNondeterministic       = errors.New("more than one transition for the same state and symbol")
	ErrInvalidStateID         = errors.New("state ids must be positive")
)

// ErrInputOutsideAlphabet is returned by strict input validation.
var ErrInputOutsideAlphabet = errors.New("input symbol outside the input alphabet")

// InvalidMachineError lists every invariant a Definition violated.
type InvalidMachineError struct {
	Violations []error
}

func (e *InvalidMachineError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("%v: %v", ErrInvalidMachine, e.Violations[0])
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%v: %d violations: %s", ErrInvalidMachine, len(e.Violations), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual violations to errors.Is / errors.As.
func (e *InvalidMachineError) Unwrap() []error {
	return append([]error{ErrInvalidMachine}, e.Violations...)
}
