package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const bellYAML = `version: "1.0.0"
name: bell
statements:
  - qubit: {name: q, size: 2}
  - gate: H
    qubits: ["q[0]"]
  - gate: CNOT
    qubits: ["q[0]", "q[1]"]
`

const qftYAML = `name: qft2
statements:
  - qubit: {name: q, size: 2}
  - gate: QFT
    qubits: [q]
`

const measuredYAML = `name: measured
statements:
  - qubit: {name: q, size: 1}
  - gate: X
    qubits: ["q[0]"]
  - measure: "q[0]"
    into: m
`

const badRefYAML = `statements:
  - qubit: {name: q, size: 1}
  - gate: H
    qubits: ["q[4]"]
  - gate: CNOT
    qubits: ["r[0]", "q[0]"]
`

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
