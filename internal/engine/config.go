package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// DefaultMaxQubits is the default qubit ceiling. 24 qubits need 2^24
// complex128 amplitudes, 256 MiB.
const DefaultMaxQubits = 24

// HardMaxQubits is the largest ceiling an engine may be configured with.
// 30 qubits need 16 GiB.
const HardMaxQubits = 30

// Config holds engine parameters.
type Config struct {
	MaxQubits int
	Rand      *rand.Rand
	Logger    *slog.Logger
}

// Option allows configuration of engine parameters.
type Option func(*Config)

// WithMaxQubits sets the qubit ceiling checked at construction.
//
// Default: 24 qubits (DefaultMaxQubits). May not exceed HardMaxQubits.
func WithMaxQubits(n int) Option {
	return func(c *Config) {
		c.MaxQubits = n
	}
}

// WithSeed makes measurement sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Rand = NewSeededRand(seed)
	}
}

// WithRand sets the random source used for measurement sampling.
func WithRand(r *rand.Rand) Option {
	return func(c *Config) {
		c.Rand = r
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// NewSeededRand returns a deterministic PCG source for seed.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newConfig(opts []Option) (Config, error) {
	cfg := Config{MaxQubits: DefaultMaxQubits}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxQubits < 1 || cfg.MaxQubits > HardMaxQubits {
		return cfg, &RuntimeError{
			Code:      ErrCodeInvalidConfig,
			Message:   fmt.Sprintf("max qubits must be in [1, %d], got %d", HardMaxQubits, cfg.MaxQubits),
			Statement: -1,
		}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg, nil
}
