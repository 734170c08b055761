package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.ProgramStore using Redis.
// Programs are JSON values under <prefix>program:<name>; a sorted set at
// <prefix>programs:index indexes names by expiry. Names cannot contain ':' so
// the two namespaces never meet.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for programs.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix shared by programs and the index.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "turing:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(name string) string {
	return s.prefix + "program:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "programs:index"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Save persists the program. The read of the previous version and the write run
// in a WATCH transaction so concurrent saves keep a consistent CreatedAt.
func (s *Store) Save(ctx context.Context, program *domain.Program) error {
	if err := domain.ValidateProgramName(program.Name); err != nil {
		return err
	}
	key := s.key(program.Name)

	err := s.client.Watch(ctx, func(tx *backend.Tx) error {
		prev, err := s.get(ctx, tx, key)
		if err != nil && !errors.Is(err, domain.ErrProgramNotFound) {
			return err
		}

		stamped := program.Stamp(prev, time.Now().UTC())
		data, err := json.Marshal(stamped)
		if err != nil {
			return fmt.Errorf("failed to marshal program: %w", err)
		}

		// Score = expiry. Programs without TTL never leave the index.
		score := float64(time.Now().Add(s.ttl).Unix())
		if s.ttl == 0 {
			score = 4102444800 // 2100-01-01
		}

		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: program.Name})
			return nil
		})
		return err
	}, key)
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the program from Redis.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	return s.get(ctx, s.client, s.key(name))
}

type getter interface {
	Get(ctx context.Context, key string) *backend.StringCmd
}

func (s *Store) get(ctx context.Context, c getter, key string) (*domain.Program, error) {
	val, err := c.Get(ctx, key).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var program domain.Program
	if err := json.Unmarshal([]byte(val), &program); err != nil {
		return nil, fmt.Errorf("failed to unmarshal program: %w", err)
	}
	return &program, nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired entries from the index and returns the remaining names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired programs: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
