package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, writeFile(t, "bell.yaml", bellYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ bell valid (2 qubit(s), 3 statement(s))")
}

func TestValidateCommand_ValidJSON(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})

	out, err := execute(cmd, writeFile(t, "bell.yaml", bellYAML))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Qubits)
	assert.Len(t, resp.Data.ProgramHash, 64)
}

func TestValidateCommand_NameFallsBackToFileName(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, writeFile(t, "flip.yaml", "statements:\n  - qubit: {name: q, size: 1}\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ flip valid")
}

func TestValidateCommand_ReportsEveryError(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, writeFile(t, "bad.yaml", badRefYAML))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ Program invalid")
	assert.Contains(t, out, "E103: statement 1")
	assert.Contains(t, out, "E102: statement 2")
}

func TestValidateCommand_ErrorsJSON(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})

	out, err := execute(cmd, writeFile(t, "bad.yaml", badRefYAML))
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string        `json:"code"`
			Details []ErrorDetail `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E103", resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, 2, resp.Error.Details[1].Statement)
}

func TestValidateCommand_ValidationCodes(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	// References resolve but RX has no angle.
	src := "statements:\n  - qubit: {name: q, size: 1}\n  - gate: RX\n    qubits: [\"q[0]\"]\n"
	out, err := execute(cmd, writeFile(t, "rx.yaml", src))
	require.Error(t, err)
	assert.Contains(t, out, "E203")
}

func TestValidateCommand_FileNotFound(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, "/nonexistent/prog.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidateCommand_UnsupportedExtension(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, writeFile(t, "prog.txt", bellYAML))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E106")
}

func TestValidateCommand_CUE(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	out, err := execute(cmd, "../../testdata/programs/toffoli.cue")
	require.NoError(t, err)
	assert.Contains(t, out, "valid (3 qubit(s)")
}
