package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/roach88/qlite/internal/ir"
)

func TestWriteProgram_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	h1 := writeTestProgram(t, s)
	h2 := writeTestProgram(t, s)
	if h1 != h2 {
		t.Errorf("hash changed between writes: %q vs %q", h1, h2)
	}
	if h1 != ir.MustProgramHash(bellProgram()) {
		t.Errorf("hash = %q, want ir.ProgramHash", h1)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM programs").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("programs count = %d, want 1", count)
	}

	canonical, err := s.ReadProgram(ctx, h1)
	if err != nil {
		t.Fatalf("ReadProgram() failed: %v", err)
	}
	want, _ := ir.MarshalCanonical(bellProgram())
	if canonical != string(want) {
		t.Errorf("canonical = %s, want %s", canonical, want)
	}
}

func TestWriteRun_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	hash := writeTestProgram(t, s)

	first, err := s.WriteRun(ctx, createTestRun(hash, 1))
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	second, err := s.WriteRun(ctx, createTestRun(hash, 2))
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	if first.ID != "run-1" || second.ID != "run-2" {
		t.Errorf("ids = %q, %q, want run-1, run-2", first.ID, second.ID)
	}
	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("seqs = %d, %d, want 1, 2", first.Seq, second.Seq)
	}
	if first.EngineVersion != ir.EngineVersion || first.IRVersion != ir.IRVersion {
		t.Errorf("versions = %q/%q", first.EngineVersion, first.IRVersion)
	}
}

func TestWriteRun_DefaultGeneratorIsUUIDv7(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()
	hash := writeTestProgram(t, s)

	run, err := s.WriteRun(context.Background(), createTestRun(hash, 0))
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	id, err := uuid.Parse(run.ID)
	if err != nil {
		t.Fatalf("run ID %q is not a UUID: %v", run.ID, err)
	}
	if id.Version() != 7 {
		t.Errorf("uuid version = %d, want 7", id.Version())
	}
}

func TestWriteRun_UnknownProgram(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteRun(context.Background(), createTestRun("no-such-hash", 0))
	if err == nil {
		t.Error("expected foreign key error for unknown program")
	}
}

func TestWriteRun_RejectsZeroQubits(t *testing.T) {
	s := createTestStore(t)
	run := createTestRun(writeTestProgram(t, s), 0)
	run.QubitCount = 0

	if _, err := s.WriteRun(context.Background(), run); err == nil {
		t.Error("expected error for zero qubit count")
	}
}

func TestReadRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	hash := writeTestProgram(t, s)

	in := createTestRun(hash, ^uint64(0))
	in.QASM = "OPENQASM 2.0;\n"
	in.Measurements = []Measurement{{Qubit: 0, ClassicalBit: "c0", Outcome: "11", Value: 1}}
	written, err := s.WriteRun(ctx, in)
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	got, err := s.ReadRun(ctx, written.ID)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}

	if got.Seed != ^uint64(0) {
		t.Errorf("seed = %d, want max uint64", got.Seed)
	}
	if got.QASM != in.QASM {
		t.Errorf("qasm = %q, want %q", got.QASM, in.QASM)
	}
	if len(got.Measurements) != 1 || got.Measurements[0] != in.Measurements[0] {
		t.Errorf("measurements = %+v, want %+v", got.Measurements, in.Measurements)
	}
	// Zero probabilities are not stored.
	if len(got.Probabilities) != 2 || got.Probabilities["00"] != 0.5 || got.Probabilities["11"] != 0.5 {
		t.Errorf("probabilities = %v", got.Probabilities)
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadRun() error = %v, want sql.ErrNoRows", err)
	}
}

func TestListRuns_OrderAndFilter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	bell := writeTestProgram(t, s)
	other, err := s.WriteProgram(ctx, ir.NewProgram(ir.Declare("q", 1), ir.Gate(ir.GateX, 0)))
	if err != nil {
		t.Fatalf("WriteProgram() failed: %v", err)
	}

	for i, hash := range []string{bell, other, bell, bell} {
		run := createTestRun(hash, uint64(i))
		if _, err := s.WriteRun(ctx, run); err != nil {
			t.Fatalf("WriteRun(%d) failed: %v", i, err)
		}
	}

	all, err := s.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	for i, run := range all {
		if run.Seq != int64(i+1) {
			t.Errorf("run %d seq = %d, want %d", i, run.Seq, i+1)
		}
	}

	filtered, err := s.ListRuns(ctx, RunFilter{ProgramHash: bell, Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(filtered))
	}
	if filtered[0].Seq != 1 || filtered[1].Seq != 3 {
		t.Errorf("filtered seqs = %d, %d, want 1, 3", filtered[0].Seq, filtered[1].Seq)
	}
}

func TestListRuns_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), RunFilter{ProgramHash: "none"})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if runs == nil {
		t.Error("ListRuns() returned nil, want empty slice")
	}
}

func TestMarshalProbabilities_SortedAndSparse(t *testing.T) {
	got, err := marshalProbabilities(map[string]float64{"11": 0.25, "00": 0.75, "01": 0})
	if err != nil {
		t.Fatalf("marshalProbabilities() failed: %v", err)
	}
	if got != `{"00":0.75,"11":0.25}` {
		t.Errorf("got %s", got)
	}
	if strings.Contains(got, "\n") {
		t.Error("trailing newline not trimmed")
	}
}
