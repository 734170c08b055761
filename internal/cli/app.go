package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds the process-wide dependencies shared by commands.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    ports.ProgramStore
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	closers []func() error
}

// NewApp builds the logger, program store and metrics for cfg.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
	}

	logger, closeLog, err := createLogger(cfg)
	if err != nil {
		return nil, err
	}
	app.Logger = logger
	app.closers = append(app.closers, closeLog)

	store, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Store = store
	app.closers = append(app.closers, closeStore)

	if app.Metrics, err = observability.NewMetrics(app.Registry); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return app, nil
}

// Engine creates an engine with the configured budget, logger and metrics.
// extra options are applied last.
func (a *App) Engine(extra ...turing.Option) *turing.Engine {
	opts := []turing.Option{
		turing.WithLogger(a.Logger),
		turing.WithMaxSteps(a.Config.MaxSteps),
		turing.WithLifecycleHooks(a.Metrics.Hooks()),
	}
	if a.Config.Level() <= slog.LevelDebug {
		opts = append(opts, turing.WithLifecycleHooks(observability.LoggingHooks(a.Logger)))
	}
	return turing.New(append(opts, extra...)...)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewStore opens the program store selected by cfg.Store, sealed with the
// encryption middleware when a store key is configured.
func NewStore(ctx context.Context, cfg config.Config) (ports.ProgramStore, func() error, error) {
	store, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	active, fallback, err := cfg.Keys()
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	if active == nil {
		return store, closeFn, nil
	}
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return middleware.Chain(store, mw), closeFn, nil
}

func openStore(ctx context.Context, cfg config.Config) (ports.ProgramStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.StoreDir), noop, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalidConfig, cfg.Store)
}

// createLogger writes to stderr and, when a log file is configured, also to
// that file as JSON.
func createLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	if cfg.LogFile == "" {
		return logging.New(cfg.Level()), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.NewFanout(cfg.Level(), f), f.Close, nil
}
