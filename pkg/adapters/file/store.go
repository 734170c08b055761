package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/afero"
)

// DefaultBasePath is used when no directory is configured.
var DefaultBasePath = filepath.Join(".turing", "programs")

// Store implements ports.ProgramStore on a filesystem.
// Each program is a JSON file named after the program.
type Store struct {
	fs       afero.Fs
	basePath string
	mu       sync.Mutex
}

// New creates a store on the operating system filesystem.
// If basePath is empty, it defaults to DefaultBasePath.
func New(basePath string) *Store {
	return NewWithFs(afero.NewOsFs(), basePath)
}

// NewWithFs creates a store on an arbitrary afero filesystem.
func NewWithFs(fs afero.Fs, basePath string) *Store {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return &Store{fs: fs, basePath: basePath}
}

// BasePath returns the directory holding the program files.
func (s *Store) BasePath() string {
	return s.basePath
}

func (s *Store) path(name string) string {
	return filepath.Join(s.basePath, name+".json")
}

// Save persists the program atomically.
// It writes to a temporary file first, syncs it, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, program *domain.Program) error {
	if err := domain.ValidateProgramName(program.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure program directory: %w", err)
	}

	prev, err := s.read(program.Name)
	if err != nil && !errors.Is(err, domain.ErrProgramNotFound) {
		return err
	}
	stamped := program.Stamp(prev, time.Now().UTC())

	data, err := json.MarshalIndent(stamped, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}

	// Same directory so the rename stays on one filesystem. The ".tmp" extension
	// keeps leftovers out of List whatever the program is called.
	tmp, err := afero.TempFile(s.fs, s.basePath, program.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := s.fs.Rename(tmpPath, s.path(program.Name)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load retrieves the program from its JSON file.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	if err := domain.ValidateProgramName(name); err != nil {
		return nil, domain.ErrProgramNotFound
	}
	return s.read(name)
}

func (s *Store) read(name string) (*domain.Program, error) {
	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	var program domain.Program
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, fmt.Errorf("failed to unmarshal program: %w", err)
	}
	return &program, nil
}

// Delete removes the program file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete program file: %w", err)
	}
	return nil
}

// List returns the names of all program files.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names, nil
}
