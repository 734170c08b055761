package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProgramStoreContract runs a suite of tests to verify that a ProgramStore
// implementation adheres to the defined interface contract.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		program := &domain.Program{
			Name:        name,
			Encoding:    "0100101010",
			Description: "flip the first one",
		}
		require.NoError(t, store.Save(ctx, program))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, program.Encoding, loaded.Encoding)
		assert.Equal(t, program.Description, loaded.Description)
		assert.False(t, loaded.CreatedAt.IsZero(), "CreatedAt is stamped")
		assert.False(t, loaded.UpdatedAt.IsZero(), "UpdatedAt is stamped")
	})

	t.Run("Replace keeps CreatedAt", func(t *testing.T) {
		first, err := store.Load(ctx, name)
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, &domain.Program{Name: name, Encoding: "0101001010"}))
		second, err := store.Load(ctx, name)
		require.NoError(t, err)

		assert.Equal(t, "0101001010", second.Encoding)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
		assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
	})

	t.Run("Store owns its copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.Encoding = "mutated"

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.Encoding)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		err := store.Save(ctx, &domain.Program{Name: "../escape", Encoding: "0"})
		assert.ErrorIs(t, err, domain.ErrInvalidProgramName)
	})

	t.Run("List", func(t *testing.T) {
		a, b := name+"-a", name+"-b"
		require.NoError(t, store.Save(ctx, &domain.Program{Name: b, Encoding: "0"}))
		require.NoError(t, store.Save(ctx, &domain.Program{Name: a, Encoding: "0"}))
		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
		assert.IsIncreasing(t, names)
	})

	t.Run("Names that look internal", func(t *testing.T) {
		keep := name + "-keep"
		require.NoError(t, store.Save(ctx, &domain.Program{Name: keep, Encoding: "0"}))
		defer func() { _ = store.Delete(ctx, keep) }()

		for _, n := range []string{"tmp-inc", "index", ".hidden"} {
			require.NoError(t, store.Save(ctx, &domain.Program{Name: n, Encoding: "0101001010"}), n)

			loaded, err := store.Load(ctx, n)
			require.NoError(t, err, n)
			assert.Equal(t, "0101001010", loaded.Encoding, n)

			names, err := store.List(ctx)
			require.NoError(t, err, n)
			assert.Contains(t, names, n)
			assert.Contains(t, names, keep)

			require.NoError(t, store.Delete(ctx, n), n)
			names, err = store.List(ctx)
			require.NoError(t, err, n)
			assert.NotContains(t, names, n)
			assert.Contains(t, names, keep, "deleting %q keeps the rest of the listing", n)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, name))
		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound, "Load after Delete should return ErrProgramNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Delete is idempotent")
	})
}
