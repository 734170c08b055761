package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// ProgramStore persists named machine encodings.
// Implementations must be safe for concurrent use.
type ProgramStore interface {
	// Save creates or replaces the program. CreatedAt is kept on replace.
	Save(ctx context.Context, program *domain.Program) error

	// Load retrieves a program by name.
	// Returns domain.ErrProgramNotFound if the program does not exist.
	Load(ctx context.Context, name string) (*domain.Program, error)

	// Delete removes a program. Deleting a missing program is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all programs in lexical order.
	List(ctx context.Context) ([]string, error)
}
