package godel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// RecordSeparator joins transition records.
const RecordSeparator = "11"

// Encoder produces the canonical binary encoding of a machine.
type Encoder struct {
	machine   *domain.Machine
	symbolIDs map[domain.Symbol]int
}

// NewEncoder assigns a wire id to every tape symbol of m.
// It fails with ErrUnencodableSymbol if a declared symbol has no wire id.
func NewEncoder(m *domain.Machine) (*Encoder, error) {
	ids := make(map[domain.Symbol]int)
	for _, sym := range m.TapeAlphabet() {
		id, err := IDForSymbol(sym, m.Blank())
		if err != nil {
			return nil, err
		}
		ids[sym] = id
	}
	return &Encoder{machine: m, symbolIDs: ids}, nil
}

// SymbolMapping returns a copy of the symbol to id table.
func (e *Encoder) SymbolMapping() map[domain.Symbol]int {
	out := make(map[domain.Symbol]int, len(e.symbolIDs))
	for k, v := range e.symbolIDs {
		out[k] = v
	}
	return out
}

func (e *Encoder) symbolID(sym domain.Symbol) (int, error) {
	id, ok := e.symbolIDs[sym]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUndefinedSymbol, sym)
	}
	return id, nil
}

// EncodeTransition renders one record: 0^i 1 0^j 1 0^k 1 0^l 1 0^m.
func (e *Encoder) EncodeTransition(t domain.Transition) (string, error) {
	j, err := e.symbolID(t.Read)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", t, err)
	}
	l, err := e.symbolID(t.Write)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", t, err)
	}

	runs := []int{t.From.ID, j, t.To.ID, l, IDForDirection(t.Move)}

	var sb strings.Builder
	for i, n := range runs {
		if i > 0 {
			sb.WriteByte('1')
		}
		sb.WriteString(strings.Repeat("0", n))
	}
	return sb.String(), nil
}

// Encode returns the records of every transition, sorted by (state id, symbol id)
// and joined with "11". The result does not depend on declaration order.
func (e *Encoder) Encode() (string, error) {
	type keyed struct {
		t        domain.Transition
		stateID  int
		symbolID int
	}

	transitions := e.machine.Transitions()
	items := make([]keyed, 0, len(transitions))
	for _, t := range transitions {
		id, err := e.symbolID(t.Read)
		if err != nil {
			return "", fmt.Errorf("encoding %s: %w", t, err)
		}
		items = append(items, keyed{t: t, stateID: t.From.ID, symbolID: id})
	}
	sort.Slice(items, func(a, b int) bool {
		if items[a].stateID != items[b].stateID {
			return items[a].stateID < items[b].stateID
		}
		return items[a].symbolID < items[b].symbolID
	})

	records := make([]string, 0, len(items))
	for _, it := range items {
		rec, err := e.EncodeTransition(it.t)
		if err != nil {
			return "", err
		}
		records = append(records, rec)
	}
	return strings.Join(records, RecordSeparator), nil
}

// GodelNumber returns "1" followed by the encoded records.
func (e *Encoder) GodelNumber() (string, error) {
	enc, err := e.Encode()
	if err != nil {
		return "", err
	}
	return "1" + enc, nil
}

// GodelDecimal returns the Gödel number read as a base-2 integer, in base 10.
func (e *Encoder) GodelDecimal() (string, error) {
	bin, err := e.GodelNumber()
	if err != nil {
		return "", err
	}
	return BinaryToDecimal(bin)
}

// Encode is a shortcut for NewEncoder(m) followed by GodelNumber.
func Encode(m *domain.Machine) (string, error) {
	enc, err := NewEncoder(m)
	if err != nil {
		return "", err
	}
	return enc.GodelNumber()
}
