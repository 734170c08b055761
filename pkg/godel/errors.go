package godel

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSeparator is a format error: the combined input has no "111".
	ErrMissingSeparator = errors.New("invalid input format: missing '111' separator")

	// ErrInvalidEncoding is returned for encodings containing characters other than '0' and '1'.
	ErrInvalidEncoding = errors.New("encoding may only contain '0' and '1'")

	// ErrUndefinedSymbol is returned when a transition uses a symbol absent from the tape alphabet.
	ErrUndefinedSymbol = errors.New("symbol is not in the alphabet")

	// ErrUnencodableSymbol is returned for declared symbols outside the fixed symbol table.
	ErrUnencodableSymbol = errors.New("symbol has no id in the wire symbol table")

	// ErrMalformedRecord matches every MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed transition record")

	// ErrInvalidGodelNumber is returned when a decimal Gödel number cannot be parsed.
	ErrInvalidGodelNumber = errors.New("invalid Gödel number")
)

// MalformedRecordError describes a record that did not yield five parameters
// or named a symbol id with no symbol.
type MalformedRecordError struct {
	Index    int    // position of the fragment among the non-empty fragments
	Fragment string // raw fragment text
	Params   []int  // run lengths that were found
	Reason   string // set when the parameters were present but unusable
}

func (e *MalformedRecordError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("record %d %q: %s", e.Index, e.Fragment, e.Reason)
	}
	return fmt.Sprintf("record %d %q: expected 5 parameters, got %d", e.Index, e.Fragment, len(e.Params))
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}
