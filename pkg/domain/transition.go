package domain

import (
	"fmt"
	"strings"
)

// Symbol is a single tape cell value.
type Symbol rune

func (s Symbol) String() string {
	return string(s)
}

// Direction is the head movement applied after a write.
type Direction int

const (
	None Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// ParseDirection accepts L/R/N and the long forms, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LEFT", "<":
		return Left, nil
	case "R", "RIGHT", ">":
		return Right, nil
	case "N", "NONE", "S", "STAY", "-", "":
		return None, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes any form accepted by ParseDirection.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transition is one entry of δ: (From, Read) -> (To, Write, Move).
type Transition struct {
	From  State     `json:"from"`
	Read  Symbol    `json:"read"`
	To    State     `json:"to"`
	Write Symbol    `json:"write"`
	Move  Direction `json:"move"`
}

// Key returns the lookup key of the transition.
func (t Transition) Key() Key {
	return Key{StateID: t.From.ID, Symbol: t.Read}
}

func (t Transition) String() string {
	return fmt.Sprintf("δ(%s, %s) = (%s, %s, %s)", t.From, t.Read, t.To, t.Write, t.Move)
}

// sameAs compares transitions by state identity rather than display name.
func (t Transition) sameAs(other Transition) bool {
	return t.From.Equal(other.From) &&
		t.Read == other.Read &&
		t.To.Equal(other.To) &&
		t.Write == other.Write &&
		t.Move == other.Move
}

// Key indexes the transition function.
type Key struct {
	StateID int
	Symbol  Symbol
}

// MarshalText encodes the symbol as a one-character string.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(string(s)), nil
}

// UnmarshalText requires exactly one character.
func (s *Symbol) UnmarshalText(text []byte) error {
	r := []rune(string(text))
	if len(r) != 1 {
		return fmt.Errorf("symbol must be a single character, got %q", string(text))
	}
	*s = Symbol(r[0])
	return nil
}
