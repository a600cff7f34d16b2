package ir

import (
	"math"
	"strings"
)

// GateKind names a gate. The constants below form the known set; any
// other value is an extension gate that is carried through the IR, the
// decomposer and the transpiler, and rejected only by the engine.
type GateKind string

// Primitive gates.
const (
	GateH     GateKind = "H"
	GateX     GateKind = "X"
	GateY     GateKind = "Y"
	GateZ     GateKind = "Z"
	GateRX    GateKind = "RX"
	GateRY    GateKind = "RY"
	GateRZ    GateKind = "RZ"
	GateCNOT  GateKind = "CNOT"
	GateCZ    GateKind = "CZ"
	GateCP    GateKind = "CP"
	GateSWAP  GateKind = "SWAP"
	GateCCNOT GateKind = "CCNOT"
)

// Composite gates, expanded by the decomposer.
const (
	GateQFT   GateKind = "QFT"
	GateAdder GateKind = "ADDER"
)

// Variadic marks a gate that accepts any positive operand count.
const Variadic = 0

// GateInfo describes the static properties of a known gate.
type GateInfo struct {
	Arity      int  // operand count, or Variadic
	NeedsAngle bool // angle must be present
	Composite  bool // expanded by the decomposer, never executed directly
}

// gateTable is the single source of truth for gate arity and angle
// requirements. It is never mutated.
var gateTable = map[GateKind]GateInfo{
	GateH:     {Arity: 1},
	GateX:     {Arity: 1},
	GateY:     {Arity: 1},
	GateZ:     {Arity: 1},
	GateRX:    {Arity: 1, NeedsAngle: true},
	GateRY:    {Arity: 1, NeedsAngle: true},
	GateRZ:    {Arity: 1, NeedsAngle: true},
	GateCNOT:  {Arity: 2},
	GateCZ:    {Arity: 2},
	GateCP:    {Arity: 2, NeedsAngle: true},
	GateSWAP:  {Arity: 2},
	GateCCNOT: {Arity: 3},
	GateQFT:   {Arity: Variadic, Composite: true},
	GateAdder: {Arity: 3, Composite: true},
}

// LookupGate returns the table entry for a gate kind.
// The second result is false for extension gates.
func LookupGate(kind GateKind) (GateInfo, bool) {
	info, ok := gateTable[kind]
	return info, ok
}

// IsComposite reports whether kind is a known composite gate.
func (k GateKind) IsComposite() bool {
	info, ok := gateTable[k]
	return ok && info.Composite
}

// Known reports whether kind is in the gate table.
func (k GateKind) Known() bool {
	_, ok := gateTable[k]
	return ok
}

// Mnemonic returns the lower-case instruction name.
func (k GateKind) Mnemonic() string {
	return strings.ToLower(string(k))
}

// ParseGateKind normalizes a gate name to its canonical upper-case form.
// "TOFFOLI" is accepted as an alias for CCNOT and "CX" for CNOT.
func ParseGateKind(name string) GateKind {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch upper {
	case "TOFFOLI", "CCX":
		return GateCCNOT
	case "CX":
		return GateCNOT
	}
	return GateKind(upper)
}

// KnownGates returns the known gate kinds in table declaration order.
func KnownGates() []GateKind {
	return []GateKind{
		GateH, GateX, GateY, GateZ,
		GateRX, GateRY, GateRZ,
		GateCNOT, GateCZ, GateCP, GateSWAP, GateCCNOT,
		GateQFT, GateAdder,
	}
}

// PhaseForLevel converts a CP level k into its phase θ = 2π / 2^k.
func PhaseForLevel(k float64) float64 {
	return 2 * math.Pi / math.Pow(2, k)
}
