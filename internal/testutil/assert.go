package testutil

import (
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/stretchr/testify/assert"
)

// Tolerance is the default float tolerance for probability comparisons.
const Tolerance = 1e-9

// TestingT is the subset of testing.TB the assertion helpers need.
type TestingT interface {
	Errorf(format string, args ...any)
	Helper()
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AssertProbabilities checks got against want within tol. Keys missing
// from want must have probability zero in got.
func AssertProbabilities(t TestingT, want, got map[string]float64, tol float64) bool {
	t.Helper()

	ok := true
	for _, k := range sortedKeys(got) {
		if !assert.InDeltaf(t, want[k], got[k], tol, "probability of |%s⟩", k) {
			ok = false
		}
	}
	for _, k := range sortedKeys(want) {
		if _, present := got[k]; !present {
			ok = assert.Failf(t, "missing basis state", "|%s⟩ not in result", k) && ok
		}
	}
	return ok
}

// AssertNormalized checks that the probabilities sum to 1 within 1e-6.
func AssertNormalized(t TestingT, probs map[string]float64) bool {
	t.Helper()

	var sum float64
	for _, p := range probs {
		sum += p
	}
	return assert.LessOrEqualf(t, math.Abs(sum-1), 1e-6, "probabilities sum to %v", sum)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
