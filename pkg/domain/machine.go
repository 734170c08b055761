package domain

import (
	"fmt"
	"sort"
)

// Definition is the raw description of a machine, validated by NewMachine.
// Duplicate states (by ID) and duplicate symbols are merged.
type Definition struct {
	Name          string
	States        []State
	InputAlphabet []Symbol
	TapeAlphabet  []Symbol
	Transitions   []Transition
	Start         State
	Accept        State
	Blank         Symbol
}

// Machine is an immutable, validated deterministic Turing machine.
type Machine struct {
	name          string
	states        map[int]State
	inputAlphabet map[Symbol]struct{}
	tapeAlphabet  map[Symbol]struct{}
	transitions   []Transition
	index         map[Key]int
	start         State
	accept        State
	blank         Symbol
}

// NewMachine validates def and builds the lookup index.
// Every violated invariant is reported in a single *InvalidMachineError.
func NewMachine(def Definition) (*Machine, error) {
	m := &Machine{
		name:          def.Name,
		states:        make(map[int]State, len(def.States)),
		inputAlphabet: make(map[Symbol]struct{}, len(def.InputAlphabet)),
		tapeAlphabet:  make(map[Symbol]struct{}, len(def.TapeAlphabet)),
		index:         make(map[Key]int, len(def.Transitions)),
		start:         def.Start,
		accept:        def.Accept,
		blank:         def.Blank,
	}

	var violations []error

	for _, s := range def.States {
		if s.ID <= 0 {
			violations = append(violations, fmt.Errorf("%w: %d", ErrInvalidStateID, s.ID))
			continue
		}
		if _, seen := m.states[s.ID]; !seen {
			m.states[s.ID] = s
		}
	}
	for _, sym := range def.TapeAlphabet {
		m.tapeAlphabet[sym] = struct{}{}
	}
	for _, sym := range def.InputAlphabet {
		m.inputAlphabet[sym] = struct{}{}
	}

	if _, ok := m.tapeAlphabet[def.Blank]; !ok {
		violations = append(violations, fmt.Errorf("%w: %q", ErrBlankNotInTapeAlphabet, def.Blank))
	}
	for _, sym := range sortedSymbols(m.inputAlphabet) {
		if _, ok := m.tapeAlphabet[sym]; !ok {
			violations = append(violations, fmt.Errorf("%w: %q", ErrInputNotSubset, sym))
		}
	}
	if _, ok := m.states[def.Start.ID]; !ok {
		violations = append(violations, fmt.Errorf("%w: %s", ErrStartUndeclared, def.Start))
	}
	if _, ok := m.states[def.Accept.ID]; !ok {
		violations = append(violations, fmt.Errorf("%w: %s", ErrAcceptUndeclared, def.Accept))
	}

	for _, t := range def.Transitions {
		if _, ok := m.states[t.From.ID]; !ok {
			violations = append(violations, fmt.Errorf("%w: %s in %s", ErrUndeclaredState, t.From, t))
		}
		if _, ok := m.states[t.To.ID]; !ok {
			violations = append(violations, fmt.Errorf("%w: %s in %s", ErrUndeclaredState, t.To, t))
		}

		if i, exists := m.index[t.Key()]; exists {
			if !m.transitions[i].sameAs(t) {
				violations = append(violations, fmt.Errorf("%w: %s conflicts with %s", ErrNondeterministic, t, m.transitions[i]))
			}
			continue
		}
		m.index[t.Key()] = len(m.transitions)
		m.transitions = append(m.transitions, t)
	}

	if len(violations) > 0 {
		return nil, &InvalidMachineError{Violations: violations}
	}

	// Carry declared names onto the reserved states so display is consistent.
	m.start = m.states[def.Start.ID]
	m.accept = m.states[def.Accept.ID]

	return m, nil
}

// Transition returns δ(state, symbol). The second value is false when δ is
// undefined for the pair, which models rejection.
func (m *Machine) Transition(state State, symbol Symbol) (Transition, bool) {
	i, ok := m.index[Key{StateID: state.ID, Symbol: symbol}]
	if !ok {
		return Transition{}, false
	}
	return m.transitions[i], true
}

// IsAccepting reports whether state is the accept state.
func (m *Machine) IsAccepting(state State) bool {
	return state.Equal(m.accept)
}

// IsHalting reports whether the machine stops in state. Only the accept state halts;
// rejection is modelled by the absence of a transition.
func (m *Machine) IsHalting(state State) bool {
	return m.IsAccepting(state)
}

func (m *Machine) Name() string   { return m.name }
func (m *Machine) Start() State   { return m.start }
func (m *Machine) Accept() State  { return m.accept }
func (m *Machine) Blank() Symbol  { return m.blank }
func (m *Machine) NumStates() int { return len(m.states) }

// State resolves an id to the declared state.
func (m *Machine) State(id int) (State, bool) {
	s, ok := m.states[id]
	return s, ok
}

// States returns the declared states ordered by id.
func (m *Machine) States() []State {
	out := make([]State, 0, len(m.states))
	for _, s := range m.states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TapeAlphabet returns the tape alphabet in code point order.
func (m *Machine) TapeAlphabet() []Symbol {
	return sortedSymbols(m.tapeAlphabet)
}

// InputAlphabet returns the input alphabet in code point order.
func (m *Machine) InputAlphabet() []Symbol {
	return sortedSymbols(m.inputAlphabet)
}

// HasSymbol reports whether sym belongs to the tape alphabet.
func (m *Machine) HasSymbol(sym Symbol) bool {
	_, ok := m.tapeAlphabet[sym]
	return ok
}

// Transitions returns a copy of the transition set in declaration order.
func (m *Machine) Transitions() []Transition {
	out := make([]Transition, len(m.transitions))
	copy(out, m.transitions)
	return out
}

// Definition returns a Definition that rebuilds an equivalent machine.
func (m *Machine) Definition() Definition {
	return Definition{
		Name:          m.name,
		States:        m.States(),
		InputAlphabet: m.InputAlphabet(),
		TapeAlphabet:  m.TapeAlphabet(),
		Transitions:   m.Transitions(),
		Start:         m.start,
		Accept:        m.accept,
		Blank:         m.blank,
	}
}

// ValidateInput reports the first input symbol outside the input alphabet.
func (m *Machine) ValidateInput(input string) error {
	for i, r := range []rune(input) {
		if _, ok := m.inputAlphabet[Symbol(r)]; !ok {
			return fmt.Errorf("%w: %q at position %d", ErrInputOutsideAlphabet, r, i)
		}
	}
	return nil
}

func sortedSymbols(set map[Symbol]struct{}) []Symbol {
	out := make([]Symbol, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
