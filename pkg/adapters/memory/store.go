package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/turing/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Program
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Program),
	}
}

// Save stores a copy of the program.
func (s *Store) Save(ctx context.Context, program *domain.Program) error {
	if err := domain.ValidateProgramName(program.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *domain.Program
	if existing, ok := s.data[program.Name]; ok {
		prev = &existing
	}
	s.data[program.Name] = program.Stamp(prev, time.Now().UTC())
	return nil
}

// Load returns a copy so callers can't mutate the stored program.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	program, ok := s.data[name]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return &program, nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored program names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
