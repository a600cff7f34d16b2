package ir

import (
	"fmt"
	"slices"
)

// Program is an ordered statement sequence. Order is execution and
// emission order.
type Program struct {
	Statements []Statement `json:"statements"`
}

// Statement is a sealed interface over the three statement variants.
// Only Declaration, GateApplication and Measurement implement it.
type Statement interface {
	statement() // Sealed
}

// Declaration introduces a named qubit register of the given width.
type Declaration struct {
	Register string `json:"register"`
	Size     int    `json:"size"`
}

func (Declaration) statement() {}

// GateApplication applies a gate to resolved qubit indices.
// Angle is nil for fixed gates. For CP it carries the integer level k,
// not the phase itself.
type GateApplication struct {
	Gate     GateKind `json:"gate"`
	Operands []int    `json:"operands"`
	Angle    *float64 `json:"angle,omitempty"`
}

func (GateApplication) statement() {}

// Measurement records a destructive read of one qubit into a named
// classical bit.
type Measurement struct {
	Qubit        int    `json:"qubit"`
	ClassicalBit string `json:"classical_bit"`
}

func (Measurement) statement() {}

// NewProgram creates a Program from statements.
// The slice is copied so later appends by the caller do not leak in.
func NewProgram(stmts ...Statement) Program {
	return Program{Statements: slices.Clone(stmts)}
}

// Declare is shorthand for a Declaration statement.
func Declare(register string, size int) Declaration {
	return Declaration{Register: register, Size: size}
}

// Gate is shorthand for a fixed-gate application.
func Gate(kind GateKind, operands ...int) GateApplication {
	return GateApplication{Gate: kind, Operands: operands}
}

// RotGate is shorthand for a parameterized gate application.
func RotGate(kind GateKind, angle float64, operands ...int) GateApplication {
	return GateApplication{Gate: kind, Operands: operands, Angle: Angle(angle)}
}

// Measure is shorthand for a Measurement statement.
func Measure(qubit int, bit string) Measurement {
	return Measurement{Qubit: qubit, ClassicalBit: bit}
}

// Angle returns a pointer to v for use as GateApplication.Angle.
func Angle(v float64) *float64 {
	return &v
}

// Clone returns a deep copy of the statement.
func Clone(s Statement) Statement {
	switch st := s.(type) {
	case Declaration:
		return st
	case GateApplication:
		out := GateApplication{Gate: st.Gate, Operands: slices.Clone(st.Operands)}
		if st.Angle != nil {
			out.Angle = Angle(*st.Angle)
		}
		return out
	case Measurement:
		return st
	default:
		panic(fmt.Sprintf("ir: unknown statement type %T", s))
	}
}

// Clone returns a deep copy of the program.
func (p Program) Clone() Program {
	out := Program{Statements: make([]Statement, len(p.Statements))}
	for i, s := range p.Statements {
		out.Statements[i] = Clone(s)
	}
	return out
}

// Len returns the number of statements.
func (p Program) Len() int {
	return len(p.Statements)
}

// Equal reports whether two programs contain the same statements in the
// same order. Angles compare by value.
func (p Program) Equal(other Program) bool {
	if len(p.Statements) != len(other.Statements) {
		return false
	}
	for i := range p.Statements {
		if !StatementEqual(p.Statements[i], other.Statements[i]) {
			return false
		}
	}
	return true
}

// StatementEqual compares two statements structurally.
func StatementEqual(a, b Statement) bool {
	switch x := a.(type) {
	case Declaration:
		y, ok := b.(Declaration)
		return ok && x == y
	case Measurement:
		y, ok := b.(Measurement)
		return ok && x == y
	case GateApplication:
		y, ok := b.(GateApplication)
		if !ok || x.Gate != y.Gate || !slices.Equal(x.Operands, y.Operands) {
			return false
		}
		if (x.Angle == nil) != (y.Angle == nil) {
			return false
		}
		return x.Angle == nil || *x.Angle == *y.Angle
	default:
		return false
	}
}

// Kind returns a short name for the statement variant.
func Kind(s Statement) string {
	switch s.(type) {
	case Declaration:
		return "declaration"
	case GateApplication:
		return "gate"
	case Measurement:
		return "measurement"
	default:
		return fmt.Sprintf("%T", s)
	}
}

// DeclaredQubits returns the total width of all declared registers.
func DeclaredQubits(p Program) int {
	total := 0
	for _, s := range p.Statements {
		if d, ok := s.(Declaration); ok && d.Size > 0 {
			total += d.Size
		}
	}
	return total
}
