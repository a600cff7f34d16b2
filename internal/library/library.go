// Package library provides canonical multi-gate expansions of composite
// gates as IR fragments.
//
// Every function is pure: the same input always yields the same ordered
// fragment, built from primitive GateApplication statements only.
package library

import (
	"github.com/roach88/qlite/internal/ir"
)

// Expand returns the expansion of a composite gate application.
// The second result is false when g is not a known composite, or when
// its operands do not fit the composite's shape; callers then keep g as-is.
func Expand(g ir.GateApplication) ([]ir.Statement, bool) {
	switch g.Gate {
	case ir.GateQFT:
		if len(g.Operands) == 0 {
			return nil, false
		}
		return QFT(g.Operands), true
	case ir.GateAdder:
		if len(g.Operands) != 3 {
			return nil, false
		}
		return HalfAdder(g.Operands[0], g.Operands[1], g.Operands[2]), true
	default:
		return nil, false
	}
}

// QFT expands a Quantum Fourier Transform over qubits.
//
// For each i an H on qubits[i] is followed by controlled phases from every
// later qubit j, with control qubits[j], target qubits[i] and level
// k = j-i+1. The level selects the phase 2π/2^k; consumers compute it.
// No final qubit-reversal swaps are emitted.
func QFT(qubits []int) []ir.Statement {
	k := len(qubits)
	out := make([]ir.Statement, 0, k+k*(k-1)/2)
	for i := 0; i < k; i++ {
		out = append(out, ir.Gate(ir.GateH, qubits[i]))
		for j := i + 1; j < k; j++ {
			out = append(out, ir.RotGate(ir.GateCP, float64(j-i+1), qubits[j], qubits[i]))
		}
	}
	return out
}

// HalfAdder expands a one-bit ripple-carry stage: the carry receives
// a AND b, then b receives a XOR b.
func HalfAdder(a, b, carry int) []ir.Statement {
	return []ir.Statement{
		ir.Gate(ir.GateCCNOT, a, b, carry),
		ir.Gate(ir.GateCNOT, a, b),
	}
}
