package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioDir returns the repository's conformance scenarios.
// Tests run from the package directory, so go up two levels.
func scenarioDir() string {
	dir, _ := filepath.Abs("../../testdata/scenarios")
	return dir
}

// TestDemoScenarios runs every scenario shipped with the repository.
// These serve as end-to-end checks of compile, decompose, simulate,
// transpile and store, and as examples of the scenario format.
func TestDemoScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(scenarioDir())
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			assert.NotEmpty(t, s.Description, "scenario should have description")

			result, err := Run(s)
			require.NoError(t, err, "scenario execution failed")
			assert.True(t, result.Pass, "scenario should pass: errors=%v", result.Errors)
		})
	}
}

// TestDemoScenariosReplay checks that a seeded scenario with measurements
// replays identically.
func TestDemoScenariosReplay(t *testing.T) {
	s, err := LoadScenario(filepath.Join(scenarioDir(), "bell.yaml"))
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Probabilities, second.Probabilities)
	assert.Equal(t, first.QASM, second.QASM)
	assert.Equal(t, first.ProgramHash, second.ProgramHash)
}
