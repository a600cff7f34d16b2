package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/qlite/internal/ir"
)

// MeasurementRecord is one executed measurement.
type MeasurementRecord struct {
	Statement    int    `json:"statement"`
	Qubit        int    `json:"qubit"`
	ClassicalBit string `json:"classical_bit"`
	Outcome      string `json:"outcome"` // full collapsed bitstring
	Value        int    `json:"value"`   // bit of Qubit in Outcome
}

// Result is the observable outcome of a run.
type Result struct {
	QubitCount    int                 `json:"qubit_count"`
	Probabilities map[string]float64  `json:"probabilities"`
	Measurements  []MeasurementRecord `json:"measurements"`
	Classical     map[string]int      `json:"classical"`
	GateCount     int                 `json:"gate_count"`
}

// Run executes a decomposed program.
//
// The program is validated against the engine's qubit count first.
// Declarations are no-ops, gates are applied and measurements sample and
// collapse the state. Any failure poisons the engine.
func (e *Engine) Run(p ir.Program) (*Result, error) {
	if e.poisoned != nil {
		return nil, e.poisonedError()
	}
	if err := ir.Validate(p, e.n); err != nil {
		e.poisoned = err
		return nil, fmt.Errorf("validate program: %w", err)
	}

	res := &Result{
		QubitCount: e.n,
		Classical:  map[string]int{},
	}

	for idx, stmt := range p.Statements {
		switch s := stmt.(type) {
		case ir.Declaration:
			continue

		case ir.GateApplication:
			if err := e.ApplyGate(s); err != nil {
				return nil, e.fail(idx, err)
			}
			res.GateCount++

		case ir.Measurement:
			outcome, err := e.Measure()
			if err != nil {
				return nil, e.fail(idx, err)
			}
			rec := MeasurementRecord{
				Statement:    idx,
				Qubit:        s.Qubit,
				ClassicalBit: s.ClassicalBit,
				Outcome:      outcome,
				Value:        Bit(outcome, s.Qubit),
			}
			res.Measurements = append(res.Measurements, rec)
			res.Classical[s.ClassicalBit] = rec.Value
			e.logger.Debug("measured",
				"statement", idx,
				"qubit", s.Qubit,
				"outcome", outcome,
			)

		default:
			return nil, e.fail(idx, fmt.Errorf("unknown statement type %T", stmt))
		}
	}

	res.Probabilities = e.Probabilities()
	e.logger.Debug("run complete",
		"qubits", e.n,
		"gates", res.GateCount,
		"measurements", len(res.Measurements),
	)
	return res, nil
}

// fail poisons the engine and attaches the statement index.
func (e *Engine) fail(idx int, err error) error {
	e.poisoned = err
	var re *RuntimeError
	if errors.As(err, &re) && re.Statement < 0 {
		re.Statement = idx
	}
	return err
}
