package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qlite/internal/testutil"
)

func decodeRun(t *testing.T, out string) RunOutput {
	t.Helper()
	var resp struct {
		Status string    `json:"status"`
		Data   RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestRunCommand_BellText(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, writeFile(t, "bell.yaml", bellYAML), "--seed", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "program: bell")
	assert.Contains(t, out, "seed:    7")
	assert.Contains(t, out, "  00  0.500000\n  11  0.500000\n")
	assert.NotContains(t, out, "run:")
}

func TestRunCommand_JSON(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "json"})

	out, err := execute(cmd, writeFile(t, "qft.yaml", qftYAML), "--seed", "1")
	require.NoError(t, err)

	res := decodeRun(t, out)
	assert.Equal(t, uint64(1), res.Seed)
	assert.Equal(t, 2, res.QubitCount)
	assert.Equal(t, 3, res.GateCount)
	assert.Equal(t, map[string]int{"QFT": 1}, res.Expanded)
	testutil.AssertProbabilities(t,
		map[string]float64{"00": 0.25, "01": 0.25, "10": 0.25, "11": 0.25},
		res.Probabilities, 1e-9)
}

func TestRunCommand_SameSeedSameOutcome(t *testing.T) {
	src := `statements:
  - qubit: {name: q, size: 3}
  - gate: H
    qubits: ["q[0]"]
  - gate: H
    qubits: ["q[1]"]
  - gate: H
    qubits: ["q[2]"]
  - measure: "q[1]"
    into: m
`
	path := writeFile(t, "superposed.yaml", src)

	var results []RunOutput
	for i := 0; i < 2; i++ {
		out, err := execute(NewRunCommand(&RootOptions{Format: "json"}), path, "--seed", "99")
		require.NoError(t, err)
		results = append(results, decodeRun(t, out))
	}
	assert.Equal(t, results[0].Measurements, results[1].Measurements)
	assert.Equal(t, results[0].Probabilities, results[1].Probabilities)
}

func TestRunCommand_RandomSeedReported(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "json"})

	out, err := execute(cmd, writeFile(t, "m.yaml", measuredYAML))
	require.NoError(t, err)

	res := decodeRun(t, out)
	require.Len(t, res.Measurements, 1)
	assert.Equal(t, 1, res.Classical["m"])
}

func TestRunCommand_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		IDGenerator: testutil.NewFixedIDGenerator("run-a", "run-b"),
	}
	path := writeFile(t, "m.yaml", measuredYAML)

	for _, want := range []string{"run-a", "run-b"} {
		out, err := execute(newRunCommand(opts), path, "--seed", "3", "--db", dbPath)
		require.NoError(t, err)

		res := decodeRun(t, out)
		assert.Equal(t, want, res.RunID)
	}
}

func TestRunCommand_ResourceLimit(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, writeFile(t, "bell.yaml", bellYAML), "--max-qubits", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "RESOURCE_LIMIT")
}

func TestRunCommand_UnsupportedGate(t *testing.T) {
	src := "statements:\n  - qubit: {name: q, size: 1}\n  - gate: U3\n    qubits: [\"q[0]\"]\n"
	cmd := NewRunCommand(&RootOptions{Format: "json"})

	out, err := execute(cmd, writeFile(t, "u3.yaml", src))
	require.Error(t, err)

	var resp struct {
		Error CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "UNSUPPORTED_GATE", resp.Error.Code)
}

func TestRunCommand_WiderEngine(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "json"})

	out, err := execute(cmd, writeFile(t, "m.yaml", measuredYAML), "--qubits", "3", "--seed", "1")
	require.NoError(t, err)

	res := decodeRun(t, out)
	assert.Equal(t, 3, res.QubitCount)
	assert.Equal(t, map[string]float64{"100": 1}, res.Probabilities)
}
