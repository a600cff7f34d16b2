package harness

import "github.com/roach88/qlite/internal/store"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Errors contains assertion and execution failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ErrorCodes holds the codes of the pipeline error, if any.
	ErrorCodes []string `json:"error_codes,omitempty"`

	RunID         string              `json:"run_id,omitempty"`
	ProgramHash   string              `json:"program_hash,omitempty"`
	QubitCount    int                 `json:"qubit_count,omitempty"`
	Seed          uint64              `json:"seed"`
	Probabilities map[string]float64  `json:"probabilities,omitempty"` // zero entries omitted
	Measurements  []store.Measurement `json:"measurements,omitempty"`
	Classical     map[string]int      `json:"classical,omitempty"`
	QASM          string              `json:"qasm,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:          true,
		Errors:        []string{},
		Probabilities: map[string]float64{},
		Classical:     map[string]int{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Probability returns the probability of state; absent states are zero.
func (r *Result) Probability(state string) float64 {
	return r.Probabilities[state]
}
