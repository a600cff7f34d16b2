package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qlite/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database    string
	ProgramHash string
	Limit       int
}

// HistoryEntry summarizes one stored run.
type HistoryEntry struct {
	ID            string              `json:"id"`
	Seq           int64               `json:"seq"`
	ProgramHash   string              `json:"program_hash"`
	ProgramName   string              `json:"program_name,omitempty"`
	QubitCount    int                 `json:"qubit_count"`
	Seed          uint64              `json:"seed"`
	Probabilities map[string]float64  `json:"probabilities"`
	Measurements  []store.Measurement `json:"measurements,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs",
		Long: `List runs recorded by 'qlite run --db', oldest first.

Example:
  qlite history --db ./runs.db
  qlite history --db ./runs.db --program-hash 3f2a... --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run store (required)")
	cmd.Flags().StringVar(&opts.ProgramHash, "program-hash", "", "only runs of this program")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Opening would create an empty store; a missing file is a typo.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		msg := fmt.Sprintf("database not found: %s", opts.Database)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := st.ListRuns(ctx, store.RunFilter{ProgramHash: opts.ProgramHash, Limit: opts.Limit})
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]HistoryEntry, len(runs))
	for i, r := range runs {
		entries[i] = HistoryEntry{
			ID:            r.ID,
			Seq:           r.Seq,
			ProgramHash:   r.ProgramHash,
			ProgramName:   r.ProgramName,
			QubitCount:    r.QubitCount,
			Seed:          r.Seed,
			Probabilities: r.Probabilities,
			Measurements:  r.Measurements,
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(entries)
	}

	w := formatter.Writer
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "#%d %s %s qubits=%d seed=%d hash=%s\n",
			e.Seq, e.ID, e.ProgramName, e.QubitCount, e.Seed, shortHash(e.ProgramHash))
		if opts.Verbose {
			writeProbabilities(w, e.Probabilities)
		}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
