// Package config loads process configuration from the environment and .env files.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds every setting that can come from the environment.
// Command line flags override these values.
type Config struct {
	MaxSteps int    `env:"TURING_MAX_STEPS" envDefault:"10000"`
	LogLevel string `env:"TURING_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"TURING_LOG_FILE"`

	Store    string `env:"TURING_STORE" envDefault:"file"`
	StoreDir string `env:"TURING_STORE_DIR" envDefault:".turing/programs"`

	// StoreKey enables at-rest encryption of program encodings (base64, 32 bytes).
	StoreKey          string   `env:"TURING_STORE_KEY"`
	StoreFallbackKeys []string `env:"TURING_STORE_FALLBACK_KEYS" envSeparator:","`

	MaxInputSize int `env:"TURING_MAX_INPUT_SIZE" envDefault:"65536"`

	RedisAddr     string        `env:"TURING_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"TURING_REDIS_PASSWORD"`
	RedisDB       int           `env:"TURING_REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"TURING_REDIS_TTL" envDefault:"0s"`

	HTTPPort int `env:"TURING_HTTP_PORT" envDefault:"8080"`
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads the given .env files, then the environment. Without files it
// tries ./.env and ignores its absence. Variables already set in the
// environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("failed to load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("TURING_MAX_STEPS must be positive, got %d", c.MaxSteps))
	}
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("TURING_STORE must be memory, file or redis, got %q", c.Store))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("TURING_LOG_LEVEL: %w", err))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("TURING_MAX_INPUT_SIZE must be positive, got %d", c.MaxInputSize))
	}
	if _, _, err := c.Keys(); err != nil {
		errs = append(errs, err)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("TURING_HTTP_PORT out of range: %d", c.HTTPPort))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// Keys decodes the store encryption keys. active is nil when encryption is off.
func (c Config) Keys() (active []byte, fallback [][]byte, err error) {
	if c.StoreKey == "" {
		if len(c.StoreFallbackKeys) > 0 {
			return nil, nil, errors.New("TURING_STORE_FALLBACK_KEYS requires TURING_STORE_KEY")
		}
		return nil, nil, nil
	}
	if active, err = decodeKey("TURING_STORE_KEY", c.StoreKey); err != nil {
		return nil, nil, err
	}
	for _, k := range c.StoreFallbackKeys {
		key, err := decodeKey("TURING_STORE_FALLBACK_KEYS", k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(name, value string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", name, len(key))
	}
	return key, nil
}
