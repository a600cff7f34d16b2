package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/qlite/internal/compiler"
	"github.com/roach88/qlite/internal/transpile"
)

// TranspileOptions holds flags for the transpile command.
type TranspileOptions struct {
	*RootOptions
	Output      string
	NoDecompose bool
}

// TranspileResult is the JSON payload of the transpile command.
type TranspileResult struct {
	QASM   string `json:"qasm"`
	Output string `json:"output,omitempty"`
}

// NewTranspileCommand creates the transpile command.
func NewTranspileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranspileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transpile <file>",
		Short: "Emit OpenQASM 2.0",
		Long: `Transpile a program to OpenQASM 2.0 text.

Composite gates are decomposed first unless --no-decompose is given, in
which case they are emitted by name.

Example:
  qlite transpile bell.yaml
  qlite transpile adder.cue -o adder.qasm`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranspile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.NoDecompose, "no-decompose", false, "emit composite gates without expanding them")

	return cmd
}

func runTranspile(opts *TranspileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prog, err := LoadProgram(path)
	if err != nil {
		return reportProgramError(formatter, err)
	}

	p := prog.Program
	if !opts.NoDecompose {
		p = compiler.Decompose(p)
	}

	qasm, err := transpile.Transpile(p)
	if err != nil {
		return reportProgramError(formatter, err)
	}

	if opts.Output != "" {
		if err := writeOutputFile(opts.Output, []byte(qasm)); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		formatter.VerboseLog("Wrote %s", opts.Output)
	}

	if formatter.IsJSON() {
		return formatter.Success(TranspileResult{QASM: qasm, Output: opts.Output})
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "✓ Wrote %s\n", opts.Output)
		return nil
	}
	_, err = io.WriteString(formatter.Writer, qasm)
	return err
}
