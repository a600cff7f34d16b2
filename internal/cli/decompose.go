package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qlite/internal/compiler"
)

// DecomposeOptions holds flags for the decompose command.
type DecomposeOptions struct {
	*RootOptions
	Output string // output file path; .json writes JSON, anything else YAML
}

// DecomposeResult is the JSON payload of the decompose command.
type DecomposeResult struct {
	Expanded map[string]int     `json:"expanded"`
	Output   string             `json:"output,omitempty"`
	Document *compiler.Document `json:"document,omitempty"`
}

// NewDecomposeCommand creates the decompose command.
func NewDecomposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecomposeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decompose <file>",
		Short: "Expand composite gates into primitives",
		Long: `Expand every composite gate (QFT, ADDER) of a program into primitive
gates and print the result as a program document.

Example:
  qlite decompose qft.yaml
  qlite decompose qft.yaml -o qft.flat.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompose(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runDecompose(opts *DecomposeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	prog, err := LoadProgram(path)
	if err != nil {
		return reportProgramError(formatter, err)
	}

	dec := compiler.NewDecomposer(compiler.WithDecomposerLogger(slog.Default()))
	flat := dec.Decompose(prog.Program)

	doc, err := compiler.MarshalDocument(flat, prog.Name)
	if err != nil {
		return reportProgramError(formatter, err)
	}

	result := DecomposeResult{Expanded: map[string]int{}, Output: opts.Output}
	for kind, n := range dec.Stats() {
		result.Expanded[string(kind)] = n
	}
	formatter.VerboseLog("Expanded %v: %d -> %d statement(s)", dec.ExpandedKinds(), prog.Program.Len(), flat.Len())

	if opts.Output != "" {
		data, err := encodeDocument(doc, opts.Output)
		if err != nil {
			return WrapExitError(ExitFailure, "encode document", err)
		}
		if err := writeOutputFile(opts.Output, data); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		if formatter.IsJSON() {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%d statement(s))\n", opts.Output, flat.Len())
		return nil
	}

	if formatter.IsJSON() {
		result.Document = doc
		return formatter.Success(result)
	}
	data, err := compiler.EncodeYAML(doc)
	if err != nil {
		return WrapExitError(ExitFailure, "encode document", err)
	}
	_, err = formatter.Writer.Write(data)
	return err
}

func encodeDocument(doc *compiler.Document, path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return compiler.EncodeJSON(doc)
	}
	return compiler.EncodeYAML(doc)
}
