package ir

import "fmt"

// QubitRef locates a flat qubit index inside its register.
type QubitRef struct {
	Register string
	Offset   int
}

// String renders the reference in surface syntax, e.g. "q[1]".
func (r QubitRef) String() string {
	return fmt.Sprintf("%s[%d]", r.Register, r.Offset)
}

// Layout maps between flat qubit indices and register-relative references.
// Registers occupy contiguous index ranges in declaration order.
type Layout struct {
	registers []Declaration
	starts    map[string]int
	total     int
}

// NewLayout builds the layout of every valid declaration in p.
// Declarations with non-positive size or a repeated name are skipped.
func NewLayout(p Program) *Layout {
	l := &Layout{starts: make(map[string]int)}
	for _, s := range p.Statements {
		d, ok := s.(Declaration)
		if !ok || d.Size <= 0 {
			continue
		}
		if _, dup := l.starts[d.Register]; dup {
			continue
		}
		l.Add(d)
	}
	return l
}

// Add appends a register at the end of the index space and returns its
// first flat index.
func (l *Layout) Add(d Declaration) int {
	start := l.total
	l.registers = append(l.registers, d)
	l.starts[d.Register] = start
	l.total += d.Size
	return start
}

// Total returns the number of qubits covered by the layout.
func (l *Layout) Total() int {
	return l.total
}

// Registers returns the registers in declaration order.
func (l *Layout) Registers() []Declaration {
	out := make([]Declaration, len(l.registers))
	copy(out, l.registers)
	return out
}

// Index resolves a register name and offset to a flat index.
func (l *Layout) Index(register string, offset int) (int, bool) {
	start, ok := l.starts[register]
	if !ok {
		return 0, false
	}
	for _, d := range l.registers {
		if d.Register == register {
			if offset < 0 || offset >= d.Size {
				return 0, false
			}
			return start + offset, true
		}
	}
	return 0, false
}

// Ref resolves a flat index back to its register reference.
func (l *Layout) Ref(index int) (QubitRef, bool) {
	if index < 0 {
		return QubitRef{}, false
	}
	start := 0
	for _, d := range l.registers {
		if index < start+d.Size {
			return QubitRef{Register: d.Register, Offset: index - start}, true
		}
		start += d.Size
	}
	return QubitRef{}, false
}
