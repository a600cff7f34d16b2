package harness

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the deterministic parts of a result as text: QASM,
// nonzero probabilities at six decimals and measurements.
func Snapshot(name string, r *Result) []byte {
	var buf strings.Builder

	fmt.Fprintf(&buf, "# scenario: %s\n", name)
	fmt.Fprintf(&buf, "# qubits: %d\n", r.QubitCount)
	buf.WriteString("\n## qasm\n")
	buf.WriteString(r.QASM)
	buf.WriteString("\n## probabilities\n")
	buf.WriteString(formatProbabilities(r.Probabilities))

	if len(r.Measurements) > 0 {
		buf.WriteString("\n## measurements\n")
		for _, m := range r.Measurements {
			fmt.Fprintf(&buf, "q%d -> %s = %d (%s)\n", m.Qubit, m.ClassicalBit, m.Value, m.Outcome)
		}
	}
	if len(r.Classical) > 0 {
		buf.WriteString("\n## classical\n")
		bits := make([]string, 0, len(r.Classical))
		for b := range r.Classical {
			bits = append(bits, b)
		}
		sort.Strings(bits)
		for _, b := range bits {
			fmt.Fprintf(&buf, "%s = %d\n", b, r.Classical[b])
		}
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %s", scenario.Name, strings.Join(result.Errors, "; "))
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares a result's snapshot against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result))
}
