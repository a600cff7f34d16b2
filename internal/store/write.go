package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/qlite/internal/ir"
)

// WriteProgram stores the canonical form of p and returns its hash.
// Uses ON CONFLICT(hash) DO NOTHING for idempotency.
func (s *Store) WriteProgram(ctx context.Context, p ir.Program) (string, error) {
	hash, err := ir.ProgramHash(p)
	if err != nil {
		return "", fmt.Errorf("write program: %w", err)
	}
	canonical, err := ir.MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("write program: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO programs (hash, canonical, ir_version)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, string(canonical), ir.IRVersion)
	if err != nil {
		return "", fmt.Errorf("write program: %w", err)
	}
	return hash, nil
}

// WriteRun inserts a run and returns it with ID and Seq assigned.
//
// If run.ID is empty an ID is taken from the store's generator. Seq is
// always assigned here as one past the highest stored seq. The program
// referenced by ProgramHash must already exist (foreign key constraint).
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if run.QubitCount <= 0 {
		return Run{}, errors.New("write run: qubit count must be positive")
	}
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}
	if run.EngineVersion == "" {
		run.EngineVersion = ir.EngineVersion
	}
	if run.IRVersion == "" {
		run.IRVersion = ir.IRVersion
	}

	probsJSON, err := marshalProbabilities(run.Probabilities)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	measJSON, err := marshalMeasurements(run.Measurements)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, program_hash, program_name, qubit_count, seed, qasm, probabilities, measurements, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.ProgramHash,
		run.ProgramName,
		run.QubitCount,
		int64(run.Seed),
		run.QASM,
		probsJSON,
		measJSON,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}
