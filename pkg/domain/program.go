package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrProgramNotFound is returned when a stored program does not exist.
	ErrProgramNotFound = errors.New("program not found")

	// ErrInvalidProgramName is returned for names that cannot be used as store keys.
	ErrInvalidProgramName = errors.New("invalid program name")
)

// MaxProgramNameLength bounds program names.
const MaxProgramNameLength = 128

// Program is a named machine encoding kept in a program library.
type Program struct {
	Name        string    `json:"name"`
	Encoding    string    `json:"encoding"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidateProgramName accepts letters, digits, '.', '-' and '_'.
// Names are used verbatim as file names and redis keys.
func ValidateProgramName(name string) error {
	if name == "" || len(name) > MaxProgramNameLength {
		return fmt.Errorf("%w: length must be 1-%d", ErrInvalidProgramName, MaxProgramNameLength)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidProgramName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: unexpected %q in %q", ErrInvalidProgramName, r, name)
		}
	}
	return nil
}

// Stamp returns a copy of p with UpdatedAt set to now. CreatedAt is carried over
// from prev when the program already existed, and set to now otherwise.
func (p Program) Stamp(prev *Program, now time.Time) Program {
	p.UpdatedAt = now
	p.CreatedAt = now
	if prev != nil && !prev.CreatedAt.IsZero() {
		p.CreatedAt = prev.CreatedAt
	}
	return p
}
