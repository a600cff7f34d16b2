package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const runColumns = `id, seq, program_hash, program_name, qubit_count, seed, qasm, probabilities, measurements, engine_version, ir_version`

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ReadProgram returns the canonical JSON stored for hash.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadProgram(ctx context.Context, hash string) (string, error) {
	var canonical string
	err := s.db.QueryRowContext(ctx, `SELECT canonical FROM programs WHERE hash = ?`, hash).Scan(&canonical)
	if err != nil {
		return "", err
	}
	return canonical, nil
}

// ListRuns returns runs matching filter, ordered by seq ASC, id ASC.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProgramHash != "" {
		where = append(where, "program_hash = ?")
		args = append(args, filter.ProgramHash)
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		seed      int64
		probsJSON string
		measJSON  string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.ProgramHash,
		&run.ProgramName,
		&run.QubitCount,
		&seed,
		&run.QASM,
		&probsJSON,
		&measJSON,
		&run.EngineVersion,
		&run.IRVersion,
	)
	if err == sql.ErrNoRows {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Seed = uint64(seed)

	if run.Probabilities, err = unmarshalProbabilities(probsJSON); err != nil {
		return Run{}, err
	}
	if run.Measurements, err = unmarshalMeasurements(measJSON); err != nil {
		return Run{}, err
	}
	return run, nil
}
