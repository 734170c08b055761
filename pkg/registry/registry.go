// Package registry keeps a catalog of named machine constructors.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
)

// ErrNotFound is returned by Lookup for unknown names.
var ErrNotFound = errors.New("machine not found")

// Entry describes a machine the registry can build.
type Entry struct {
	Name        string
	Description string
	// Example is an input the machine accepts.
	Example string
	Build   func() (*domain.Machine, error)
}

// Registry manages the available machines.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a machine to the registry.
// If an entry with the same name exists, it is overwritten.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Name] = e
}

// Lookup builds the machine registered under name.
func (r *Registry) Lookup(name string) (*domain.Machine, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.Build()
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Builtins returns a registry preloaded with the reference machines.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(Entry{
		Name:        "unary-increment",
		Description: "Appends a 1 to a unary number written in 0s",
		Example:     "000",
		Build: func() (*domain.Machine, error) {
			b := dsl.New("unary-increment")
			b.State(dsl.Start).On('0').Right().Go(3)
			b.State(3).
				On('0').Right().Go(3).
				On('_').Write('1').Stay().Go(dsl.Accept)
			return b.Build()
		},
	})
	r.Register(Entry{
		Name:        "unary-add",
		Description: "Adds two unary numbers separated by a 1",
		Example:     "00100",
		Build: func() (*domain.Machine, error) {
			b := dsl.New("unary-add")
			b.State(dsl.Start).
				On('0').Right().Go(dsl.Start).
				On('1').Write('0').Right().Go(3)
			b.State(3).Named("seek-end").
				On('0').Right().Go(3).
				On('_').Left().Go(4)
			b.State(4).Named("erase").
				On('0').Write('_').Stay().Go(dsl.Accept)
			return b.Build()
		},
	})
	r.Register(Entry{
		Name:        "binary-flip",
		Description: "Inverts every bit of a binary string",
		Example:     "0110",
		Build: func() (*domain.Machine, error) {
			b := dsl.New("binary-flip")
			b.State(dsl.Start).
				On('0').Write('1').Right().Go(dsl.Start).
				On('1').Write('0').Right().Go(dsl.Start).
				On('_').Stay().Go(dsl.Accept)
			return b.Build()
		},
	})
	r.Register(Entry{
		Name:        "even-zeros",
		Description: "Accepts strings of 0s of even length",
		Example:     "0000",
		Build: func() (*domain.Machine, error) {
			b := dsl.New("even-zeros")
			b.State(dsl.Start).
				On('0').Right().Go(3).
				On('_').Stay().Go(dsl.Accept)
			b.State(3).Named("odd").
				On('0').Right().Go(dsl.Start)
			return b.Build()
		},
	})
	return r
}
