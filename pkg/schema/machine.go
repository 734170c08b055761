package schema

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// MachineFile is the on-disk form of a machine.
type MachineFile struct {
	Name          string           `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Blank         string           `yaml:"blank,omitempty" json:"blank,omitempty" mapstructure:"blank"`
	InputAlphabet string           `yaml:"input_alphabet,omitempty" json:"input_alphabet,omitempty" mapstructure:"input_alphabet"`
	TapeAlphabet  string           `yaml:"tape_alphabet,omitempty" json:"tape_alphabet,omitempty" mapstructure:"tape_alphabet"`
	States        []StateSpec      `yaml:"states,omitempty" json:"states,omitempty" mapstructure:"states"`
	Transitions   []TransitionSpec `yaml:"transitions" json:"transitions" mapstructure:"transitions"`
}

// StateSpec names a state.
type StateSpec struct {
	ID   int    `yaml:"id" json:"id" mapstructure:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
}

// TransitionSpec is one rule δ(from, read) = (to, write, move).
type TransitionSpec struct {
	From  int    `yaml:"from" json:"from" mapstructure:"from"`
	Read  string `yaml:"read" json:"read" mapstructure:"read"`
	To    int    `yaml:"to" json:"to" mapstructure:"to"`
	Write string `yaml:"write,omitempty" json:"write,omitempty" mapstructure:"write"`
	Move  string `yaml:"move,omitempty" json:"move,omitempty" mapstructure:"move"`
}

// MachineSchema is the structure every definition document must follow.
var MachineSchema = Schema{
	"name":           Optional(Text()),
	"blank":          Optional(Symbol()),
	"input_alphabet": Optional(Text()),
	"tape_alphabet":  Optional(Text()),
	"states": Optional(List(Object(Schema{
		"id":   Required(StateID()),
		"name": Optional(Text()),
	}))),
	"transitions": Required(List(Object(Schema{
		"from":  Required(StateID()),
		"read":  Required(Symbol()),
		"to":    Required(StateID()),
		"write": Optional(Symbol()),
		"move":  Optional(Direction()),
	}))),
}

// Parse validates and decodes a definition document.
func Parse(data []byte, format Format) (*MachineFile, error) {
	raw, err := unmarshalRaw(data, format)
	if err != nil {
		return nil, err
	}
	if err := Validate(MachineSchema, raw); err != nil {
		return nil, fmt.Errorf("invalid machine definition: %w", err)
	}

	var file MachineFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &file,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode machine definition: %w", err)
	}
	return &file, nil
}

// Load parses a document and builds the machine it describes.
func Load(data []byte, format Format) (*domain.Machine, error) {
	file, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return file.Build()
}

// LoadFile reads a definition from disk; the format follows the file extension.
func LoadFile(path string) (*domain.Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine file: %w", err)
	}
	return Load(data, FormatFromPath(path))
}

// Definition converts the file into a domain definition without validating it.
func (f *MachineFile) Definition() domain.Definition {
	blank := domain.Blank
	if f.Blank != "" {
		blank = firstSymbol(f.Blank)
	}

	names := map[int]string{}
	for _, s := range f.States {
		names[s.ID] = s.Name
	}
	stateFor := func(id int) domain.State {
		s := domain.NewState(id)
		if name := names[id]; name != "" {
			s.Name = name
		}
		return s
	}

	seenStates := map[int]bool{}
	var states []domain.State
	addState := func(id int) {
		if !seenStates[id] {
			seenStates[id] = true
			states = append(states, stateFor(id))
		}
	}
	addState(domain.StartStateID)
	addState(domain.AcceptStateID)
	for _, s := range f.States {
		addState(s.ID)
	}

	seenSymbols := map[domain.Symbol]bool{}
	var tape []domain.Symbol
	addSymbol := func(sym domain.Symbol) {
		if !seenSymbols[sym] {
			seenSymbols[sym] = true
			tape = append(tape, sym)
		}
	}
	addSymbol(blank)
	for _, r := range f.TapeAlphabet {
		addSymbol(domain.Symbol(r))
	}

	transitions := make([]domain.Transition, 0, len(f.Transitions))
	for _, spec := range f.Transitions {
		read := firstSymbol(spec.Read)
		write := read
		if spec.Write != "" {
			write = firstSymbol(spec.Write)
		}
		// Validated by MachineSchema before decoding.
		move, _ := domain.ParseDirection(spec.Move)

		addState(spec.From)
		addState(spec.To)
		addSymbol(read)
		addSymbol(write)
		transitions = append(transitions, domain.Transition{
			From:  stateFor(spec.From),
			Read:  read,
			To:    stateFor(spec.To),
			Write: write,
			Move:  move,
		})
	}

	var input []domain.Symbol
	if f.InputAlphabet != "" {
		for _, r := range f.InputAlphabet {
			input = append(input, domain.Symbol(r))
		}
	} else {
		for _, sym := range tape {
			if sym != blank {
				input = append(input, sym)
			}
		}
	}

	return domain.Definition{
		Name:          f.Name,
		States:        states,
		InputAlphabet: input,
		TapeAlphabet:  tape,
		Transitions:   transitions,
		Start:         stateFor(domain.StartStateID),
		Accept:        stateFor(domain.AcceptStateID),
		Blank:         blank,
	}
}

// Build converts the file into a validated machine.
func (f *MachineFile) Build() (*domain.Machine, error) {
	m, err := domain.NewMachine(f.Definition())
	if err != nil {
		return nil, fmt.Errorf("failed to build machine %q: %w", f.Name, err)
	}
	return m, nil
}

// FromMachine produces the file form of m. States keep their names only when
// they differ from the default.
func FromMachine(m *domain.Machine) *MachineFile {
	f := &MachineFile{
		Name:          m.Name(),
		InputAlphabet: symbolsString(m.InputAlphabet()),
		TapeAlphabet:  symbolsString(m.TapeAlphabet()),
	}
	if m.Blank() != domain.Blank {
		f.Blank = m.Blank().String()
	}
	for _, s := range m.States() {
		if s.Name != "" && s.Name != domain.NewState(s.ID).Name {
			f.States = append(f.States, StateSpec{ID: s.ID, Name: s.Name})
		}
	}
	for _, t := range m.Transitions() {
		spec := TransitionSpec{
			From: t.From.ID,
			Read: t.Read.String(),
			To:   t.To.ID,
			Move: t.Move.String(),
		}
		if t.Write != t.Read {
			spec.Write = t.Write.String()
		}
		f.Transitions = append(f.Transitions, spec)
	}
	return f
}

// Marshal renders m as a definition document.
func Marshal(m *domain.Machine, format Format) ([]byte, error) {
	return marshal(FromMachine(m), format)
}

func firstSymbol(s string) domain.Symbol {
	for _, r := range s {
		return domain.Symbol(r)
	}
	return domain.Blank
}

func symbolsString(symbols []domain.Symbol) string {
	runes := make([]rune, len(symbols))
	for i, s := range symbols {
		runes[i] = rune(s)
	}
	return string(runes)
}
