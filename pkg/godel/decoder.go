package godel

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/aretw0/turing/pkg/domain"
)

// Report describes what a decode pass found, including skipped records.
type Report struct {
	Records     int                 `json:"records"`
	Transitions []domain.Transition `json:"transitions"`
	Errors      []error             `json:"-"`
}

// ErrorStrings renders Errors for serialisation.
func (r *Report) ErrorStrings() []string {
	out := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		out[i] = err.Error()
	}
	return out
}

// Decoder reconstructs machines from binary encodings.
// It accepts any encoding following the record grammar: the leading "1" marker
// and the canonical record order are optional.
type Decoder struct {
	logger *slog.Logger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithLogger sets the logger that receives skipped-record warnings.
func WithLogger(logger *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDecoder creates a decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses encoding and builds the machine it describes. Malformed records
// are skipped and listed in the report; they never abort the decode. The returned
// error is non-nil only for encodings with foreign characters or when the decoded
// transitions do not form a valid machine.
func (d *Decoder) Decode(encoding string) (*domain.Machine, *Report, error) {
	encoding = stripSpace(encoding)
	report := &Report{}

	if i := strings.IndexFunc(encoding, func(r rune) bool { return r != '0' && r != '1' }); i >= 0 {
		return nil, report, fmt.Errorf("%w: found %q at offset %d", ErrInvalidEncoding, encoding[i], i)
	}

	for _, fragment := range strings.Split(encoding, RecordSeparator) {
		if fragment == "" {
			continue
		}
		index := report.Records
		report.Records++

		t, err := parseRecord(index, fragment)
		if err != nil {
			d.logger.Warn("skipping malformed transition record", "index", index, "fragment", fragment, "error", err)
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Transitions = append(report.Transitions, t)
	}

	m, err := domain.NewMachine(definitionFor(report.Transitions))
	if err != nil {
		return nil, report, fmt.Errorf("decoded transitions do not form a machine: %w", err)
	}
	return m, report, nil
}

// parseRecord reads the lengths of the zero runs in one record. Runs beyond the
// fifth are ignored.
func parseRecord(index int, fragment string) (domain.Transition, error) {
	var params []int
	for _, run := range strings.Split(fragment, "1") {
		if run != "" {
			params = append(params, len(run))
		}
	}
	if len(params) < 5 {
		return domain.Transition{}, &MalformedRecordError{Index: index, Fragment: fragment, Params: params}
	}

	read, ok := SymbolForID(params[1])
	if !ok {
		return domain.Transition{}, &MalformedRecordError{Index: index, Fragment: fragment, Params: params,
			Reason: fmt.Sprintf("read symbol id %d is reserved", params[1])}
	}
	write, ok := SymbolForID(params[3])
	if !ok {
		return domain.Transition{}, &MalformedRecordError{Index: index, Fragment: fragment, Params: params,
			Reason: fmt.Sprintf("write symbol id %d is reserved", params[3])}
	}

	return domain.Transition{
		From:  domain.NewState(params[0]),
		Read:  read,
		To:    domain.NewState(params[2]),
		Write: write,
		Move:  DirectionForID(params[4]),
	}, nil
}

func definitionFor(transitions []domain.Transition) domain.Definition {
	states := []domain.State{domain.Start, domain.Accept}
	seenStates := map[int]bool{domain.StartStateID: true, domain.AcceptStateID: true}
	tape := []domain.Symbol{domain.Blank}
	seenSymbols := map[domain.Symbol]bool{domain.Blank: true}

	for _, t := range transitions {
		for _, s := range []domain.State{t.From, t.To} {
			if !seenStates[s.ID] {
				seenStates[s.ID] = true
				states = append(states, s)
			}
		}
		for _, sym := range []domain.Symbol{t.Read, t.Write} {
			if !seenSymbols[sym] {
				seenSymbols[sym] = true
				tape = append(tape, sym)
			}
		}
	}

	input := make([]domain.Symbol, 0, len(tape))
	for _, sym := range tape {
		if sym != domain.Blank {
			input = append(input, sym)
		}
	}

	return domain.Definition{
		States:        states,
		InputAlphabet: input,
		TapeAlphabet:  tape,
		Transitions:   transitions,
		Start:         domain.Start,
		Accept:        domain.Accept,
		Blank:         domain.Blank,
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Decode is a shortcut for NewDecoder().Decode(encoding).
func Decode(encoding string) (*domain.Machine, *Report, error) {
	return NewDecoder().Decode(encoding)
}
