package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/roach88/qlite/internal/compiler"
	"github.com/roach88/qlite/internal/ir"
	"github.com/roach88/qlite/internal/pipeline"
	"github.com/roach88/qlite/internal/store"
	"github.com/roach88/qlite/internal/testutil"
)

// Option configures Run.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation.
// Assertions are evaluated against the run as read back from the store.
//
// The returned error covers harness failures only (store, file access).
// Program and assertion failures are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := config{logger: testutil.DiscardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewFixedIDGenerator("scenario-"+scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	result := NewResult()
	result.Seed = scenario.Seed

	prog, err := loadProgram(scenario)
	if err == nil {
		popts := []pipeline.Option{
			pipeline.WithName(scenario.Name),
			pipeline.WithSeed(scenario.Seed),
			pipeline.WithQubits(scenario.Qubits),
			pipeline.WithStore(st),
			pipeline.WithLogger(cfg.logger),
		}
		if scenario.MaxQubits > 0 {
			popts = append(popts, pipeline.WithMaxQubits(scenario.MaxQubits))
		}
		var out *pipeline.Outcome
		out, err = pipeline.Execute(ctx, prog, popts...)
		if err == nil {
			if rerr := fillFromStore(ctx, st, out.Run.ID, result); rerr != nil {
				return nil, rerr
			}
		}
	}

	if !checkExpectedError(scenario, err, result) {
		return result, nil
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	cfg.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

// checkExpectedError records err against the scenario's expect_error and
// reports whether assertions should still be evaluated.
func checkExpectedError(s *Scenario, err error, result *Result) bool {
	if err != nil {
		result.ErrorCodes = pipeline.ErrorCodes(err)
	}

	switch {
	case s.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("program failed: %v", err))
		return false
	case s.ExpectError == "":
		return true
	case err == nil:
		result.AddError(fmt.Sprintf("expected error %s, program succeeded", s.ExpectError))
		return false
	case !pipeline.HasCode(err, s.ExpectError):
		result.AddError(fmt.Sprintf("expected error %s, got [%s]: %v",
			s.ExpectError, strings.Join(result.ErrorCodes, ", "), err))
		return false
	default:
		return false
	}
}

func loadProgram(s *Scenario) (ir.Program, error) {
	if s.Program != nil {
		return compiler.Compile(s.Program)
	}
	src, err := os.ReadFile(s.ProgramFile)
	if err != nil {
		return ir.Program{}, fmt.Errorf("read program: %w", err)
	}
	p, _, err := compiler.CompileSource(s.ProgramFile, src)
	return p, err
}

// fillFromStore copies the stored run into result.
func fillFromStore(ctx context.Context, st *store.Store, id string, result *Result) error {
	run, err := st.ReadRun(ctx, id)
	if err != nil {
		return fmt.Errorf("read back run %s: %w", id, err)
	}
	result.RunID = run.ID
	result.ProgramHash = run.ProgramHash
	result.QubitCount = run.QubitCount
	result.Probabilities = run.Probabilities
	result.Measurements = run.Measurements
	result.QASM = run.QASM
	for _, m := range run.Measurements {
		result.Classical[m.ClassicalBit] = m.Value
	}
	return nil
}
