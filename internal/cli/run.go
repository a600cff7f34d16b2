package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/qlite/internal/engine"
	"github.com/roach88/qlite/internal/pipeline"
	"github.com/roach88/qlite/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Seed      uint64
	MaxQubits int
	Qubits    int
	Database  string

	// IDGenerator overrides run ID generation (for testing).
	// If nil, the store's UUIDv7 default is used.
	IDGenerator store.IDGenerator
}

// RunOutput is the JSON payload of the run command.
type RunOutput struct {
	Name          string                     `json:"name"`
	ProgramHash   string                     `json:"program_hash"`
	Seed          uint64                     `json:"seed"`
	QubitCount    int                        `json:"qubit_count"`
	GateCount     int                        `json:"gate_count"`
	Expanded      map[string]int             `json:"expanded,omitempty"`
	Probabilities map[string]float64         `json:"probabilities"` // zero entries omitted
	Measurements  []engine.MeasurementRecord `json:"measurements,omitempty"`
	Classical     map[string]int             `json:"classical,omitempty"`
	RunID         string                     `json:"run_id,omitempty"`
	Seq           int64                      `json:"seq,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Simulate a program",
		Long: `Decompose and simulate a program on the statevector engine.

Prints the final probability distribution and every measurement. Without
--seed a random seed is drawn and reported so the run can be repeated.
With --db the program and run are recorded in a SQLite run store.

Example:
  qlite run bell.yaml --seed 42
  qlite run qft.cue --db ./runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "measurement seed (default: random)")
	cmd.Flags().IntVar(&opts.MaxQubits, "max-qubits", engine.DefaultMaxQubits, "qubit ceiling for the engine")
	cmd.Flags().IntVar(&opts.Qubits, "qubits", 0, "engine width (default: declared qubits)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run store")

	return cmd
}

func runProgram(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prog, err := LoadProgram(path)
	if err != nil {
		return reportProgramError(formatter, err)
	}

	popts := []pipeline.Option{
		pipeline.WithName(prog.Name),
		pipeline.WithQubits(opts.Qubits),
		pipeline.WithMaxQubits(opts.MaxQubits),
		pipeline.WithLogger(slog.Default()),
	}
	if cmd.Flags().Changed("seed") {
		popts = append(popts, pipeline.WithSeed(opts.Seed))
	}

	if opts.Database != "" {
		var sopts []store.Option
		if opts.IDGenerator != nil {
			sopts = append(sopts, store.WithIDGenerator(opts.IDGenerator))
		}
		st, err := store.Open(opts.Database, sopts...)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		popts = append(popts, pipeline.WithStore(st))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := pipeline.Execute(ctx, prog.Program, popts...)
	if err != nil {
		return reportProgramError(formatter, err)
	}

	result := RunOutput{
		Name:          prog.Name,
		ProgramHash:   out.ProgramHash,
		Seed:          out.Seed,
		QubitCount:    out.Result.QubitCount,
		GateCount:     out.Result.GateCount,
		Expanded:      map[string]int{},
		Probabilities: sparse(out.Result.Probabilities),
		Measurements:  out.Result.Measurements,
		Classical:     out.Result.Classical,
	}
	for kind, n := range out.Expanded {
		result.Expanded[string(kind)] = n
	}
	if out.Run != nil {
		result.RunID = out.Run.ID
		result.Seq = out.Run.Seq
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	writeRunText(formatter, result)
	return nil
}

func writeRunText(f *OutputFormatter, r RunOutput) {
	w := f.Writer
	fmt.Fprintf(w, "program: %s\n", r.Name)
	fmt.Fprintf(w, "hash:    %s\n", r.ProgramHash)
	fmt.Fprintf(w, "qubits:  %d\n", r.QubitCount)
	fmt.Fprintf(w, "gates:   %d\n", r.GateCount)
	fmt.Fprintf(w, "seed:    %d\n", r.Seed)

	fmt.Fprintln(w, "\nprobabilities:")
	writeProbabilities(w, r.Probabilities)

	if len(r.Measurements) > 0 {
		fmt.Fprintln(w, "\nmeasurements:")
		for _, m := range r.Measurements {
			fmt.Fprintf(w, "  q%d -> %s = %d (%s)\n", m.Qubit, m.ClassicalBit, m.Value, m.Outcome)
		}
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "\nrun: %s (seq %d)\n", r.RunID, r.Seq)
	}
}
