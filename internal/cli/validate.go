package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qlite/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool   `json:"valid"`
	Name        string `json:"name"`
	Qubits      int    `json:"qubits"`
	Statements  int    `json:"statements"`
	ProgramHash string `json:"program_hash"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Compile and validate a program",
		Long: `Compile a program document and validate it against its own declarations.

Reports every reference, arity, angle and declaration problem with its
code and statement index. Nothing is simulated.

Exit codes:
  0 - Program valid
  1 - Program invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	prog, err := LoadProgram(path)
	if err != nil {
		return reportProgramError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s: %d statement(s)", path, prog.Program.Len())

	hash, err := ir.ProgramHash(prog.Program)
	if err != nil {
		return WrapExitError(ExitFailure, "hash program", err)
	}

	result := ValidationResult{
		Valid:       true,
		Name:        prog.Name,
		Qubits:      ir.DeclaredQubits(prog.Program),
		Statements:  prog.Program.Len(),
		ProgramHash: hash,
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s valid (%d qubit(s), %d statement(s))\n",
		result.Name, result.Qubits, result.Statements)
	return nil
}
