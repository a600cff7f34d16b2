package harness

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Context  string // Probabilities or QASM for debugging
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Context != "" {
		fmt.Fprintf(&buf, "\n%s", e.Context)
	}
	return buf.String()
}

func tolerance(a Assertion) float64 {
	if a.Tolerance > 0 {
		return a.Tolerance
	}
	return DefaultTolerance
}

// assertProbability checks the probability of one basis state.
func assertProbability(r *Result, a Assertion) error {
	if len(a.State) != r.QubitCount {
		return &AssertionError{
			Type:     AssertProbability,
			Expected: fmt.Sprintf("a %d-bit state", r.QubitCount),
			Actual:   fmt.Sprintf("state %q", a.State),
		}
	}
	got := r.Probability(a.State)
	if math.Abs(got-*a.Value) > tolerance(a) {
		return &AssertionError{
			Type:     AssertProbability,
			Expected: fmt.Sprintf("P(%s) = %v ± %v", a.State, *a.Value, tolerance(a)),
			Actual:   fmt.Sprintf("P(%s) = %v", a.State, got),
			Context:  formatProbabilities(r.Probabilities),
		}
	}
	return nil
}

// assertMeasurement checks a classical bit value or a collapsed outcome.
func assertMeasurement(r *Result, a Assertion) error {
	if a.Bit != "" {
		got, ok := r.Classical[a.Bit]
		want := int(*a.Value)
		if !ok || got != want {
			actual := "bit not measured"
			if ok {
				actual = fmt.Sprintf("%s = %d", a.Bit, got)
			}
			return &AssertionError{
				Type:     AssertMeasurement,
				Expected: fmt.Sprintf("%s = %d", a.Bit, want),
				Actual:   actual,
			}
		}
	}
	if a.Outcome != "" {
		for _, m := range r.Measurements {
			if m.Outcome == a.Outcome {
				return nil
			}
		}
		outcomes := make([]string, len(r.Measurements))
		for i, m := range r.Measurements {
			outcomes[i] = m.Outcome
		}
		return &AssertionError{
			Type:     AssertMeasurement,
			Expected: fmt.Sprintf("a measurement collapsing to %s", a.Outcome),
			Actual:   fmt.Sprintf("outcomes %v", outcomes),
		}
	}
	return nil
}

// assertNormalized checks Σ p = 1.
func assertNormalized(r *Result, a Assertion) error {
	tol := a.Tolerance
	if tol == 0 {
		tol = 1e-6
	}
	var sum float64
	for _, p := range r.Probabilities {
		sum += p
	}
	if math.Abs(sum-1) > tol {
		return &AssertionError{
			Type:     AssertNormalized,
			Expected: fmt.Sprintf("probabilities sum to 1 ± %v", tol),
			Actual:   fmt.Sprintf("sum = %v", sum),
			Context:  formatProbabilities(r.Probabilities),
		}
	}
	return nil
}

// assertQASMContains checks for a fragment of the transpiled output.
func assertQASMContains(r *Result, a Assertion) error {
	if !strings.Contains(r.QASM, a.Text) {
		return &AssertionError{
			Type:     AssertQASMContains,
			Expected: fmt.Sprintf("QASM containing %q", a.Text),
			Actual:   "not found",
			Context:  r.QASM,
		}
	}
	return nil
}

// formatProbabilities renders nonzero probabilities, one per line, sorted
// by state.
func formatProbabilities(probs map[string]float64) string {
	states := make([]string, 0, len(probs))
	for s, p := range probs {
		if p != 0 {
			states = append(states, s)
		}
	}
	sort.Strings(states)

	var buf strings.Builder
	for _, s := range states {
		fmt.Fprintf(&buf, "%s %.6f\n", s, probs[s])
	}
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertProbability:
			err = assertProbability(result, assertion)
		case AssertMeasurement:
			err = assertMeasurement(result, assertion)
		case AssertNormalized:
			err = assertNormalized(result, assertion)
		case AssertQASMContains:
			err = assertQASMContains(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
