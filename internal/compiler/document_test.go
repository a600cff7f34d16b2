package compiler

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qlite/internal/ir"
)

const bellYAML = `
version: "1.0.0"
name: bell
statements:
  - qubit: {name: q, size: 2}
  - gate: H
    qubits: ["q[0]"]
  - gate: CNOT
    qubits: ["q[0]", "q[1]"]
  - measure: "q[0]"
    into: c0
  - measure: "q[1]"
    into: c1
`

func TestCompileYAMLBell(t *testing.T) {
	p, doc, err := CompileSource("bell.yaml", []byte(bellYAML))
	require.NoError(t, err)
	assert.Equal(t, "bell", doc.Name)

	want := ir.NewProgram(
		ir.Declare("q", 2),
		ir.Gate(ir.GateH, 0),
		ir.Gate(ir.GateCNOT, 0, 1),
		ir.Measure(0, "c0"),
		ir.Measure(1, "c1"),
	)
	assert.True(t, want.Equal(p))
}

func TestCompileJSON(t *testing.T) {
	src := `{
  "statements": [
    {"qubit": {"name": "a", "size": 1}},
    {"qubit": {"name": "b", "size": 2}},
    {"gate": "cp", "qubits": ["b[1]", "a[0]"], "angle": 2}
  ]
}`
	p, _, err := CompileSource("prog.json", []byte(src))
	require.NoError(t, err)

	g := p.Statements[2].(ir.GateApplication)
	assert.Equal(t, ir.GateCP, g.Gate)
	assert.Equal(t, []int{2, 0}, g.Operands)
	require.NotNil(t, g.Angle)
	assert.Equal(t, 2.0, *g.Angle)
}

func TestCompileCUEEvaluatesAngles(t *testing.T) {
	src := `
import "math"

program: {
	version: "1.2.0"
	statements: [
		{qubit: {name: "q", size: 1}},
		{gate: "RX", qubits: ["q[0]"], angle: math.Pi / 2},
	]
}
`
	p, _, err := CompileSource("prog.cue", []byte(src))
	require.NoError(t, err)

	g := p.Statements[1].(ir.GateApplication)
	require.NotNil(t, g.Angle)
	assert.InDelta(t, math.Pi/2, *g.Angle, 1e-12)
}

func TestCompileCUEMissingProgram(t *testing.T) {
	_, err := ParseCUE("x.cue", []byte(`other: 1`))
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ProgramField, ce.Field)
}

func TestCompileCUESyntaxError(t *testing.T) {
	_, err := ParseCUE("x.cue", []byte(`program: {`))
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeSyntax, ce.Code)
}

func TestCompileWholeRegisterOperand(t *testing.T) {
	src := `
statements:
  - qubit: {name: anc, size: 1}
  - qubit: {name: q, size: 3}
  - gate: QFT
    qubits: [q]
`
	p, _, err := CompileSource("qft.yml", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, p.Statements[2].(ir.GateApplication).Operands)
}

func TestCompileReferenceErrors(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		code string
	}{
		{"malformed", "q[", ErrCodeBadReference},
		{"unknown register", "r[0]", ErrCodeUnknownRegister},
		{"out of range", "q[2]", ErrCodeIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Statements: []StatementDoc{
				{Qubit: &RegisterDoc{Name: "q", Size: 2}},
				{Gate: "H", Qubits: []string{tt.ref}},
			}}
			_, err := CompileDocument(doc)
			require.Error(t, err)

			var ce *CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, 1, ce.Statement)
		})
	}
}

func TestCompileMeasurementNeedsIndex(t *testing.T) {
	doc := &Document{Statements: []StatementDoc{
		{Qubit: &RegisterDoc{Name: "q", Size: 2}},
		{Measure: "q", Into: "c"},
	}}
	_, err := CompileDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs an index")
}

func TestCompileReferenceBeforeDeclaration(t *testing.T) {
	doc := &Document{Statements: []StatementDoc{
		{Gate: "X", Qubits: []string{"q[0]"}},
		{Qubit: &RegisterDoc{Name: "q", Size: 1}},
	}}
	_, err := CompileDocument(doc)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeUnknownRegister, ce.Code)
}

func TestCompileMalformedStatement(t *testing.T) {
	doc := &Document{Statements: []StatementDoc{
		{Qubit: &RegisterDoc{Name: "q", Size: 1}, Gate: "H"},
		{},
		{Measure: "q[0]"},
	}}
	_, err := CompileDocument(doc)
	require.Error(t, err)

	var errs CompileErrors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 3)
	for _, e := range errs {
		assert.Equal(t, ErrCodeMalformedStatement, e.Code)
	}
}

func TestCompileVersionCheck(t *testing.T) {
	_, err := CompileDocument(&Document{Version: "2.0.0"})
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeUnsupportedVersion, ce.Code)

	_, err = CompileDocument(&Document{Version: "not-a-version"})
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeUnsupportedVersion, ce.Code)

	_, err = CompileDocument(&Document{Version: "1.4.2"})
	assert.NoError(t, err)
}

func TestCompileValidatesProgram(t *testing.T) {
	// References resolve, but RX lacks its angle.
	src := `
statements:
  - qubit: {name: q, size: 1}
  - gate: RX
    qubits: ["q[0]"]
`
	_, _, err := CompileSource("p.yaml", []byte(src))
	require.Error(t, err)
	assert.True(t, ir.IsMissingAngleError(err))
}

func TestParseYAMLRejectsUnknownFields(t *testing.T) {
	_, err := ParseYAML([]byte("statements: []\nbogus: 1\n"))
	require.Error(t, err)
	assert.True(t, IsCompileError(err))
}

func TestParseDocumentUnsupportedExtension(t *testing.T) {
	_, err := ParseDocument("prog.ql", []byte("qubit q[1];"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestMarshalDocumentRoundTrip(t *testing.T) {
	p, _, err := CompileSource("bell.yaml", []byte(bellYAML))
	require.NoError(t, err)

	doc, err := MarshalDocument(p, "bell")
	require.NoError(t, err)
	assert.Equal(t, "q[1]", doc.Statements[2].Qubits[1])

	data, err := EncodeYAML(doc)
	require.NoError(t, err)

	again, _, err := CompileSource("again.yaml", data)
	require.NoError(t, err)
	assert.True(t, p.Equal(again))
}

func TestMarshalDocumentUndeclaredQubit(t *testing.T) {
	_, err := MarshalDocument(ir.NewProgram(ir.Gate(ir.GateH, 0)), "")
	require.Error(t, err)
}
