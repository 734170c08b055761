// Package tape implements the two-way infinite tape of a Turing machine.
//
// The tape is materialised lazily as two stacks that meet at the head: left holds
// the cells left of the head (top = nearest cell), right holds the head cell and
// everything to its right (top = head cell). Every operation is O(1) amortised.
package tape

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape is not safe for concurrent use; each run owns its own tape.
type Tape struct {
	blank    domain.Symbol
	left     []domain.Symbol
	right    []domain.Symbol
	position int
}

// New creates an empty tape holding a single blank cell under the head.
func New(blank domain.Symbol) *Tape {
	t := &Tape{blank: blank}
	t.Initialize("")
	return t
}

// Initialize discards the previous content, writes input starting at the head
// and resets the head position to 0.
func (t *Tape) Initialize(input string) {
	t.left = t.left[:0]
	t.right = t.right[:0]
	t.position = 0

	runes := []rune(input)
	if len(runes) == 0 {
		t.right = append(t.right, t.blank)
		return
	}
	for i := len(runes) - 1; i >= 0; i-- {
		t.right = append(t.right, domain.Symbol(runes[i]))
	}
}

// Read returns the symbol under the head.
func (t *Tape) Read() domain.Symbol {
	t.materialize()
	return t.right[len(t.right)-1]
}

// Write overwrites the cell under the head.
func (t *Tape) Write(sym domain.Symbol) {
	t.materialize()
	t.right[len(t.right)-1] = sym
}

// MoveLeft shifts the head one cell to the left.
func (t *Tape) MoveLeft() {
	if len(t.left) == 0 {
		t.left = append(t.left, t.blank)
	}
	top := len(t.left) - 1
	t.right = append(t.right, t.left[top])
	t.left = t.left[:top]
	t.position--
}

// MoveRight shifts the head one cell to the right.
func (t *Tape) MoveRight() {
	t.materialize()
	top := len(t.right) - 1
	t.left = append(t.left, t.right[top])
	t.right = t.right[:top]
	t.materialize()
	t.position++
}

// Move applies a head movement. None leaves the head in place.
func (t *Tape) Move(d domain.Direction) {
	switch d {
	case domain.Left:
		t.MoveLeft()
	case domain.Right:
		t.MoveRight()
	}
}

// Position is the absolute head position; the first input cell is 0.
func (t *Tape) Position() int {
	return t.position
}

// Blank returns the blank symbol of the tape.
func (t *Tape) Blank() domain.Symbol {
	return t.blank
}

// Cells returns every materialised cell in spatial order and the index of the head.
func (t *Tape) Cells() ([]domain.Symbol, int) {
	t.materialize()
	cells := make([]domain.Symbol, 0, len(t.left)+len(t.right))
	cells = append(cells, t.left...)
	for i := len(t.right) - 1; i >= 0; i-- {
		cells = append(cells, t.right[i])
	}
	return cells, len(t.left)
}

// Content is the visible output of a computation: all materialised cells with
// leading and trailing blank runs removed.
func (t *Tape) Content() string {
	cells, _ := t.Cells()
	start, end := 0, len(cells)
	for start < end && cells[start] == t.blank {
		start++
	}
	for end > start && cells[end-1] == t.blank {
		end--
	}
	var sb strings.Builder
	for _, c := range cells[start:end] {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// View renders a fixed window of context cells on each side of the head, padding
// unvisited cells with blank. The head cell is bracketed.
func (t *Tape) View(context int) string {
	if context < 0 {
		context = 0
	}
	cells, head := t.Cells()
	var sb strings.Builder
	for i := head - context; i <= head+context; i++ {
		sym := t.blank
		if i >= 0 && i < len(cells) {
			sym = cells[i]
		}
		if i == head {
			sb.WriteByte('[')
			sb.WriteRune(rune(sym))
			sb.WriteByte(']')
			continue
		}
		sb.WriteRune(rune(sym))
	}
	return sb.String()
}

// String renders the whole materialised tape with the head cell bracketed.
func (t *Tape) String() string {
	cells, head := t.Cells()
	var sb strings.Builder
	for i, c := range cells {
		if i == head {
			sb.WriteByte('[')
			sb.WriteRune(rune(c))
			sb.WriteByte(']')
			continue
		}
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

func (t *Tape) materialize() {
	if len(t.right) == 0 {
		t.right = append(t.right, t.blank)
	}
}
