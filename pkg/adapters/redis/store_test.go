package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunProgramStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Program{Name: "short-lived", Encoding: "0100101010"}))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "short-lived")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)

	// The index is pruned against the wall clock.
	time.Sleep(1200 * time.Millisecond)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Program{Name: "inc", Encoding: "0"}))
	assert.True(t, mr.Exists("custom:app:program:inc"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:programs:index"), "Expected index with custom prefix to exist")

	require.NoError(t, store.Ping(ctx))
}

func TestRedisStore_ProgramNamedIndex(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Program{Name: "inc", Encoding: "0100101010"}))
	require.NoError(t, store.Save(ctx, &domain.Program{Name: "index", Encoding: "0101001010"}))

	loaded, err := store.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, "0101001010", loaded.Encoding)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"inc", "index"}, names)

	require.NoError(t, store.Delete(ctx, "index"))
	assert.True(t, mr.Exists("turing:programs:index"), "Deleting a program keeps the index")

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"inc"}, names)
}
