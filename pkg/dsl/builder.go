package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Reserved state ids, re-exported for readability in builders.
const (
	Start  = domain.StartStateID
	Accept = domain.AcceptStateID
)

// Builder manages the machine construction.
type Builder struct {
	name          string
	blank         domain.Symbol
	names         map[int]string
	order         []int
	states        map[int]*StateBuilder
	inputAlphabet []domain.Symbol
	tapeAlphabet  []domain.Symbol
	inputSet      bool
}

// New creates a new machine builder using the wire blank '_'.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		blank:  domain.Blank,
		names:  make(map[int]string),
		states: make(map[int]*StateBuilder),
	}
}

// Blank overrides the blank symbol.
func (b *Builder) Blank(sym domain.Symbol) *Builder {
	b.blank = sym
	return b
}

// InputAlphabet declares the input alphabet explicitly. Without it the input
// alphabet is every tape symbol except blank.
func (b *Builder) InputAlphabet(symbols string) *Builder {
	b.inputSet = true
	b.inputAlphabet = toSymbols(symbols)
	return b
}

// TapeAlphabet adds symbols to the tape alphabet beyond those referenced by rules.
func (b *Builder) TapeAlphabet(symbols string) *Builder {
	b.tapeAlphabet = append(b.tapeAlphabet, toSymbols(symbols)...)
	return b
}

// Name sets the display name of a state.
func (b *Builder) Name(id int, name string) *Builder {
	b.names[id] = name
	return b
}

// State returns the builder for state id, creating it on first use.
func (b *Builder) State(id int) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id, builder: b}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Definition assembles the domain.Definition without validating it.
func (b *Builder) Definition() domain.Definition {
	seenStates := map[int]bool{}
	var states []domain.State
	addState := func(id int) {
		if !seenStates[id] {
			seenStates[id] = true
			states = append(states, b.state(id))
		}
	}
	addState(Start)
	addState(Accept)

	seenSymbols := map[domain.Symbol]bool{}
	var tapeAlphabet []domain.Symbol
	addSymbol := func(s domain.Symbol) {
		if !seenSymbols[s] {
			seenSymbols[s] = true
			tapeAlphabet = append(tapeAlphabet, s)
		}
	}
	addSymbol(b.blank)
	for _, s := range b.tapeAlphabet {
		addSymbol(s)
	}

	var transitions []domain.Transition
	for _, id := range b.order {
		addState(id)
		for _, r := range b.states[id].rules {
			addState(r.to)
			addSymbol(r.read)
			addSymbol(r.write)
			transitions = append(transitions, domain.Transition{
				From:  b.state(id),
				Read:  r.read,
				To:    b.state(r.to),
				Write: r.write,
				Move:  r.move,
			})
		}
	}

	inputAlphabet := b.inputAlphabet
	if !b.inputSet {
		for _, s := range tapeAlphabet {
			if s != b.blank {
				inputAlphabet = append(inputAlphabet, s)
			}
		}
	}

	return domain.Definition{
		Name:          b.name,
		States:        states,
		InputAlphabet: inputAlphabet,
		TapeAlphabet:  tapeAlphabet,
		Transitions:   transitions,
		Start:         b.state(Start),
		Accept:        b.state(Accept),
		Blank:         b.blank,
	}
}

// Build compiles the rules into a validated machine.
func (b *Builder) Build() (*domain.Machine, error) {
	m, err := domain.NewMachine(b.Definition())
	if err != nil {
		return nil, fmt.Errorf("failed to build machine %q: %w", b.name, err)
	}
	return m, nil
}

// MustBuild is like Build but panics on error. Intended for tests and fixtures.
func (b *Builder) MustBuild() *domain.Machine {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

func (b *Builder) state(id int) domain.State {
	s := domain.NewState(id)
	if name, ok := b.names[id]; ok {
		s.Name = name
	}
	return s
}

func toSymbols(s string) []domain.Symbol {
	out := make([]domain.Symbol, 0, len(s))
	for _, r := range s {
		out = append(out, domain.Symbol(r))
	}
	return out
}
