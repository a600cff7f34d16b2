package engine

import (
	"fmt"
	"log/slog"
	"math/cmplx"
	"math/rand/v2"

	"github.com/roach88/qlite/internal/ir"
)

// NormTolerance bounds the drift of Σ|a|² away from 1.
const NormTolerance = 1e-6

// Engine is a dense statevector over n qubits.
type Engine struct {
	n        int
	amps     []complex128
	rng      *rand.Rand
	logger   *slog.Logger
	poisoned error
}

// New creates an engine over n qubits in the |0…0⟩ state.
//
// The qubit count is checked against the configured ceiling before the
// amplitude array is allocated.
func New(n int, opts ...Option) (*Engine, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, &RuntimeError{
			Code:      ErrCodeInvalidQubitCount,
			Message:   fmt.Sprintf("qubit count must be at least 1, got %d", n),
			Statement: -1,
		}
	}
	if n > cfg.MaxQubits {
		return nil, NewResourceLimitError(n, cfg.MaxQubits)
	}

	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &Engine{
		n:      n,
		amps:   amps,
		rng:    cfg.Rand,
		logger: cfg.Logger,
	}, nil
}

// QubitCount returns n.
func (e *Engine) QubitCount() int {
	return e.n
}

// Statevector returns a copy of the amplitudes.
func (e *Engine) Statevector() []complex128 {
	out := make([]complex128, len(e.amps))
	copy(out, e.amps)
	return out
}

// Norm returns Σ|a|².
func (e *Engine) Norm() float64 {
	var sum float64
	for _, a := range e.amps {
		sum += prob(a)
	}
	return sum
}

// qubitMask returns the basis-index bit for qubit q. Qubit 0 is the MSB.
func (e *Engine) qubitMask(q int) int {
	return 1 << (e.n - 1 - q)
}

// ApplyGate applies a gate statement.
func (e *Engine) ApplyGate(g ir.GateApplication) error {
	return e.Apply(g.Gate, g.Operands, g.Angle)
}

// Apply applies gate to operands. angle is required for RX, RY, RZ and
// CP, where it is the level k of θ = 2π/2^k.
func (e *Engine) Apply(gate ir.GateKind, operands []int, angle *float64) error {
	if e.poisoned != nil {
		return e.poisonedError()
	}

	info, ok := ir.LookupGate(gate)
	if !ok {
		return NewUnsupportedGateError(gate, "no handler for extension gate")
	}
	if info.Composite {
		return NewUnsupportedGateError(gate, "composite gates must be decomposed before execution")
	}
	if err := e.checkOperands(gate, info, operands, angle); err != nil {
		return err
	}

	switch gate {
	case ir.GateH:
		e.applySingle(operands[0], Hadamard())
	case ir.GateX:
		e.applySingle(operands[0], PauliX())
	case ir.GateY:
		e.applySingle(operands[0], PauliY())
	case ir.GateZ:
		e.applySingle(operands[0], PauliZ())
	case ir.GateRX:
		e.applySingle(operands[0], RX(*angle))
	case ir.GateRY:
		e.applySingle(operands[0], RY(*angle))
	case ir.GateRZ:
		e.applySingle(operands[0], RZ(*angle))
	case ir.GateCNOT:
		e.applyCNOT(operands[0], operands[1])
	case ir.GateCZ:
		e.applyControlledPhase(operands[0], operands[1], -1)
	case ir.GateCP:
		e.applyControlledPhase(operands[0], operands[1], cmplx.Exp(complex(0, ir.PhaseForLevel(*angle))))
	case ir.GateSWAP:
		a, b := operands[0], operands[1]
		for _, pair := range [][]int{{a, b}, {b, a}, {a, b}} {
			if err := e.Apply(ir.GateCNOT, pair, nil); err != nil {
				return err
			}
		}
	case ir.GateCCNOT:
		e.applyCCNOT(operands[0], operands[1], operands[2])
	default:
		return NewUnsupportedGateError(gate, "no handler")
	}
	return nil
}

func (e *Engine) checkOperands(gate ir.GateKind, info ir.GateInfo, operands []int, angle *float64) error {
	if info.Arity != ir.Variadic && len(operands) != info.Arity {
		return newOperandError(gate, "expected %d operands, got %d", info.Arity, len(operands))
	}
	seen := make(map[int]bool, len(operands))
	for _, q := range operands {
		if q < 0 || q >= e.n {
			return newOperandError(gate, "qubit %d out of range [0, %d)", q, e.n)
		}
		if seen[q] {
			return newOperandError(gate, "qubit %d used twice", q)
		}
		seen[q] = true
	}
	if info.NeedsAngle && angle == nil {
		return newOperandError(gate, "missing angle")
	}
	return nil
}

// applySingle transforms each amplitude pair that differs only in the
// target bit.
func (e *Engine) applySingle(q int, m Matrix) {
	mask := e.qubitMask(q)
	for i := range e.amps {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a0, a1 := e.amps[i], e.amps[j]
		e.amps[i] = m[0][0]*a0 + m[0][1]*a1
		e.amps[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (e *Engine) applyCNOT(control, target int) {
	cm, tm := e.qubitMask(control), e.qubitMask(target)
	for i := range e.amps {
		if i&cm != 0 && i&tm == 0 {
			j := i | tm
			e.amps[i], e.amps[j] = e.amps[j], e.amps[i]
		}
	}
}

// applyControlledPhase multiplies amplitudes with both bits set by phase.
func (e *Engine) applyControlledPhase(control, target int, phase complex128) {
	cm, tm := e.qubitMask(control), e.qubitMask(target)
	for i := range e.amps {
		if i&cm != 0 && i&tm != 0 {
			e.amps[i] *= phase
		}
	}
}

func (e *Engine) applyCCNOT(c1, c2, target int) {
	m1, m2, tm := e.qubitMask(c1), e.qubitMask(c2), e.qubitMask(target)
	for i := range e.amps {
		if i&m1 != 0 && i&m2 != 0 && i&tm == 0 {
			j := i | tm
			e.amps[i], e.amps[j] = e.amps[j], e.amps[i]
		}
	}
}

// Probabilities returns |a|² for every basis state, keyed by a
// fixed-width bitstring with qubit 0 leftmost.
func (e *Engine) Probabilities() map[string]float64 {
	out := make(map[string]float64, len(e.amps))
	for i, a := range e.amps {
		out[e.bitstring(i)] = prob(a)
	}
	return out
}

// Measure samples a basis state by the Born rule, collapses the state to
// it and returns its bitstring.
func (e *Engine) Measure() (string, error) {
	if e.poisoned != nil {
		return "", e.poisonedError()
	}

	r := e.rng.Float64()
	chosen := -1
	var cum float64
	for i, a := range e.amps {
		p := prob(a)
		if p == 0 {
			continue
		}
		chosen = i
		cum += p
		if r < cum {
			break
		}
	}
	// Rounding can leave cum just below r; chosen is then the last
	// nonzero state.
	if chosen < 0 {
		return "", &RuntimeError{
			Code:      ErrCodeInvalidOperands,
			Message:   "statevector has zero norm",
			Statement: -1,
		}
	}

	clear(e.amps)
	e.amps[chosen] = 1
	return e.bitstring(chosen), nil
}

// Bit returns the value of qubit q in a bitstring produced by this engine.
func Bit(bitstring string, q int) int {
	if q < 0 || q >= len(bitstring) || bitstring[q] != '1' {
		return 0
	}
	return 1
}

func (e *Engine) bitstring(i int) string {
	return fmt.Sprintf("%0*b", e.n, i)
}

func (e *Engine) poisonedError() error {
	return &RuntimeError{
		Code:      ErrCodePoisoned,
		Message:   fmt.Sprintf("engine failed earlier and must be discarded: %v", e.poisoned),
		Statement: -1,
	}
}

func prob(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}
