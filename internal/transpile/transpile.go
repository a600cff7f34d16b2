package transpile

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/qlite/internal/ir"
)

// Header lines emitted before any declaration.
const (
	HeaderVersion = "OPENQASM 2.0;"
	HeaderInclude = `include "qelib1.inc";`
)

// DefaultClassicalRegister names the classical register paired with the
// first quantum register. Later registers get "c_<name>".
const DefaultClassicalRegister = "c"

// Transpile validates p against its own declarations and renders it as
// OpenQASM 2.0. Validation errors block generation.
func Transpile(p ir.Program) (string, error) {
	var b strings.Builder
	if err := Write(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write is Transpile streaming to w.
func Write(w io.Writer, p ir.Program) error {
	if err := ir.ValidateDeclared(p); err != nil {
		return fmt.Errorf("transpile: %w", err)
	}

	t := &transpiler{w: w, layout: ir.NewLayout(ir.Program{})}
	t.line(HeaderVersion)
	t.line(HeaderInclude)

	for i, stmt := range p.Statements {
		switch s := stmt.(type) {
		case ir.Declaration:
			t.declare(s)
		case ir.GateApplication:
			if err := t.gate(s); err != nil {
				return fmt.Errorf("transpile statement %d: %w", i, err)
			}
		case ir.Measurement:
			ref, err := t.ref(s.Qubit)
			if err != nil {
				return fmt.Errorf("transpile statement %d: %w", i, err)
			}
			t.line(fmt.Sprintf("measure %s -> %s;", ref, s.ClassicalBit))
		default:
			return fmt.Errorf("transpile statement %d: unknown statement type %T", i, stmt)
		}
		if t.err != nil {
			return t.err
		}
	}
	return t.err
}

type transpiler struct {
	w      io.Writer
	layout *ir.Layout
	cregs  int
	err    error
}

func (t *transpiler) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s+"\n")
}

func (t *transpiler) declare(d ir.Declaration) {
	t.layout.Add(d)
	t.line(fmt.Sprintf("qreg %s[%d];", d.Register, d.Size))

	creg := DefaultClassicalRegister
	if t.cregs > 0 {
		creg = DefaultClassicalRegister + "_" + d.Register
	}
	t.cregs++
	t.line(fmt.Sprintf("creg %s[%d];", creg, d.Size))
}

func (t *transpiler) gate(g ir.GateApplication) error {
	refs := make([]string, len(g.Operands))
	for i, q := range g.Operands {
		r, err := t.ref(q)
		if err != nil {
			return err
		}
		refs[i] = r
	}
	args := strings.Join(refs, ", ")

	switch {
	case g.Gate == ir.GateCP && g.Angle != nil:
		t.line(fmt.Sprintf("cu1(%s) %s;", FormatFloat(ir.PhaseForLevel(*g.Angle)), args))
	case g.Gate == ir.GateSWAP:
		t.line("swap " + args + ";")
	case g.Gate == ir.GateCCNOT:
		t.line("ccx " + args + ";")
	case g.Gate == ir.GateCNOT:
		t.line("cx " + args + ";")
	case g.Gate == ir.GateH, g.Gate == ir.GateX, g.Gate == ir.GateY, g.Gate == ir.GateZ:
		t.line(g.Gate.Mnemonic() + " " + args + ";")
	case g.Angle != nil:
		t.line(fmt.Sprintf("%s(%s) %s;", g.Gate.Mnemonic(), FormatFloat(*g.Angle), args))
	default:
		// Unknown gates pass through as bare mnemonics.
		t.line(g.Gate.Mnemonic() + " " + args + ";")
	}
	return nil
}

func (t *transpiler) ref(q int) (string, error) {
	r, ok := t.layout.Ref(q)
	if !ok {
		return "", fmt.Errorf("qubit %d is not declared", q)
	}
	return r.String(), nil
}

// FormatFloat renders v with the shortest representation that parses
// back to the same float64.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
