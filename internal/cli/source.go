package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/schema"
)

// ErrSource is returned when not exactly one machine source is given.
var ErrSource = errors.New("exactly one of --machine, --encoding, --combined, --godel, --program or --builtin is required")

// Source names where a machine comes from. Exactly one field other than
// Input must be set. Combined carries its own input.
type Source struct {
	File     string
	Encoding string
	Combined string
	Godel    string
	Program  string
	Builtin  string
	Input    string
}

func (s Source) count() int {
	n := 0
	for _, v := range []string{s.File, s.Encoding, s.Combined, s.Godel, s.Program, s.Builtin} {
		if v != "" {
			n++
		}
	}
	return n
}

// Prepare resolves the source into an execution. store is only used for
// programs and may be nil otherwise.
func (s Source) Prepare(ctx context.Context, engine *turing.Engine, store ports.ProgramStore) (*turing.Execution, error) {
	if s.count() != 1 {
		return nil, ErrSource
	}

	switch {
	case s.File != "":
		m, err := schema.LoadFile(s.File)
		if err != nil {
			return nil, err
		}
		return engine.PrepareMachine(m, s.Input)
	case s.Combined != "":
		if s.Input != "" {
			return nil, fmt.Errorf("--input cannot be used with --combined")
		}
		return engine.PrepareCombined(s.Combined)
	case s.Godel != "":
		return engine.PrepareGodelNumber(s.Godel, s.Input)
	case s.Program != "":
		if store == nil {
			return nil, fmt.Errorf("no program store configured")
		}
		p, err := store.Load(ctx, s.Program)
		if err != nil {
			return nil, err
		}
		return engine.Prepare(p.Encoding, s.Input)
	case s.Builtin != "":
		m, err := registry.Builtins().Lookup(s.Builtin)
		if err != nil {
			return nil, err
		}
		return engine.PrepareMachine(m, s.Input)
	default:
		return engine.Prepare(s.Encoding, s.Input)
	}
}
