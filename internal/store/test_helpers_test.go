package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/qlite/internal/ir"
	"github.com/roach88/qlite/internal/testutil"
)

// createTestStore creates a new store in a temp dir with fixed run IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewFixedIDGenerator()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func bellProgram() ir.Program {
	return ir.NewProgram(
		ir.Declare("q", 2),
		ir.Gate(ir.GateH, 0),
		ir.Gate(ir.GateCNOT, 0, 1),
	)
}

// writeTestProgram stores the Bell program and returns its hash.
func writeTestProgram(t *testing.T, s *Store) string {
	t.Helper()
	hash, err := s.WriteProgram(context.Background(), bellProgram())
	if err != nil {
		t.Fatalf("WriteProgram() failed: %v", err)
	}
	return hash
}

// createTestRun creates a run with minimal required fields.
func createTestRun(hash string, seed uint64) Run {
	return Run{
		ProgramHash:   hash,
		ProgramName:   "bell",
		QubitCount:    2,
		Seed:          seed,
		Probabilities: map[string]float64{"00": 0.5, "01": 0, "10": 0, "11": 0.5},
	}
}
