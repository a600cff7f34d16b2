// Package harness provides conformance testing for QLite programs.
//
// The harness loads scenarios, compiles their programs, runs them through
// the full pipeline (decompose, simulate, transpile, store) and checks
// assertions against the stored run.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	seed: 7
//	program:
//	  statements:
//	    - qubit: {name: q, size: 2}
//	    - gate: H
//	      qubits: ["q[0]"]
//	assertions:
//	  - type: probability
//	    state: "00"
//	    value: 0.5
//	  - type: normalized
//
// A scenario gives either an inline program or a program_file path
// relative to the scenario file (.yaml, .yml, .json or .cue).
//
// # Assertion Types
//
//   - probability: |state⟩ has the given probability within tolerance
//   - measurement: a classical bit holds value, or a measurement collapsed
//     to outcome
//   - normalized: probabilities sum to 1
//   - qasm_contains: the transpiled QASM contains text
//
// # Expected Failures
//
// expect_error names an error code (E1xx compile, E2xx validation or an
// engine code such as UNSUPPORTED_GATE). The scenario passes only if the
// pipeline fails with that code; assertions are then skipped.
//
// # Deterministic Testing
//
// Every scenario runs with a fixed seed (0 unless given), fixed run IDs
// and a fresh in-memory SQLite store, so results and golden snapshots
// are identical across runs.
package harness
