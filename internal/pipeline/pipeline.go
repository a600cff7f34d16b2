// Package pipeline wires the QLite stages together: decompose, simulate,
// transpile and optionally persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/qlite/internal/compiler"
	"github.com/roach88/qlite/internal/engine"
	"github.com/roach88/qlite/internal/ir"
	"github.com/roach88/qlite/internal/store"
	"github.com/roach88/qlite/internal/transpile"
)

// Config holds pipeline parameters.
type Config struct {
	Name      string
	Seed      uint64
	Seeded    bool
	Qubits    int // engine width; 0 means the declared qubit count
	MaxQubits int
	Store     *store.Store
	Logger    *slog.Logger
}

// Option configures Execute.
type Option func(*Config)

// WithName records the program name on stored runs.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithSeed fixes the measurement seed. Without it a random seed is drawn
// and reported in the outcome.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
		c.Seeded = true
	}
}

// WithQubits sets the engine width.
func WithQubits(n int) Option {
	return func(c *Config) { c.Qubits = n }
}

// WithMaxQubits sets the engine qubit ceiling.
func WithMaxQubits(n int) Option {
	return func(c *Config) { c.MaxQubits = n }
}

// WithStore persists the program and run.
func WithStore(s *store.Store) Option {
	return func(c *Config) { c.Store = s }
}

// WithLogger sets the logger passed to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Outcome is everything one execution produced.
type Outcome struct {
	ProgramHash string
	Decomposed  ir.Program
	Expanded    map[ir.GateKind]int
	Seed        uint64
	Result      *engine.Result
	QASM        string
	Run         *store.Run // nil without a store
}

// Execute decomposes p, simulates it, transpiles it and, with a store,
// records the run. p must already have passed compilation.
func Execute(ctx context.Context, p ir.Program, opts ...Option) (*Outcome, error) {
	cfg := Config{MaxQubits: engine.DefaultMaxQubits}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if !cfg.Seeded {
		cfg.Seed = rand.Uint64()
	}

	hash, err := ir.ProgramHash(p)
	if err != nil {
		return nil, fmt.Errorf("hash program: %w", err)
	}

	dec := compiler.NewDecomposer(compiler.WithDecomposerLogger(cfg.Logger))
	decomposed := dec.Decompose(p)

	qubits := cfg.Qubits
	if qubits == 0 {
		qubits = ir.DeclaredQubits(decomposed)
	}
	eng, err := engine.New(qubits,
		engine.WithMaxQubits(cfg.MaxQubits),
		engine.WithSeed(cfg.Seed),
		engine.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	res, err := eng.Run(decomposed)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	qasm, err := transpile.Transpile(decomposed)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		ProgramHash: hash,
		Decomposed:  decomposed,
		Expanded:    dec.Stats(),
		Seed:        cfg.Seed,
		Result:      res,
		QASM:        qasm,
	}
	cfg.Logger.Info("program executed",
		"program_hash", hash,
		"qubits", qubits,
		"gates", res.GateCount,
		"seed", cfg.Seed,
	)

	if cfg.Store != nil {
		run, err := persist(ctx, cfg, p, out)
		if err != nil {
			return nil, err
		}
		out.Run = &run
		cfg.Logger.Info("run stored", "run_id", run.ID, "seq", run.Seq)
	}
	return out, nil
}

func persist(ctx context.Context, cfg Config, p ir.Program, out *Outcome) (store.Run, error) {
	if _, err := cfg.Store.WriteProgram(ctx, p); err != nil {
		return store.Run{}, err
	}
	ms := make([]store.Measurement, len(out.Result.Measurements))
	for i, m := range out.Result.Measurements {
		ms[i] = store.Measurement{
			Qubit:        m.Qubit,
			ClassicalBit: m.ClassicalBit,
			Outcome:      m.Outcome,
			Value:        m.Value,
		}
	}
	return cfg.Store.WriteRun(ctx, store.Run{
		ProgramHash:   out.ProgramHash,
		ProgramName:   cfg.Name,
		QubitCount:    out.Result.QubitCount,
		Seed:          out.Seed,
		QASM:          out.QASM,
		Probabilities: out.Result.Probabilities,
		Measurements:  ms,
	})
}

// ErrorCodes returns every coded error contained in err: compile codes
// (E1xx), validation codes (E2xx) and engine runtime codes.
func ErrorCodes(err error) []string {
	if err == nil {
		return nil
	}
	var codes []string

	var ces compiler.CompileErrors
	var ce *compiler.CompileError
	switch {
	case errors.As(err, &ces):
		for _, e := range ces {
			codes = append(codes, e.Code)
		}
	case errors.As(err, &ce):
		codes = append(codes, ce.Code)
	}

	codes = append(codes, ir.Codes(err)...)

	var re *engine.RuntimeError
	if errors.As(err, &re) {
		codes = append(codes, string(re.Code))
	}
	return codes
}

// HasCode reports whether err contains code.
func HasCode(err error, code string) bool {
	for _, c := range ErrorCodes(err) {
		if c == code {
			return true
		}
	}
	return false
}
