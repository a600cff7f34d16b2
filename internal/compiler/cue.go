package compiler

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ProgramField is the top-level CUE field holding the program document.
const ProgramField = "program"

// ParseCUE compiles CUE source and decodes its "program" field into a
// Document. Uses the CUE SDK's Go API directly (not CLI subprocess).
//
// Angles may be written as CUE arithmetic, which is evaluated before
// decoding:
//
//	import "math"
//	program: statements: [
//		{qubit: {name: "q", size: 1}},
//		{gate: "RX", qubits: ["q[0]"], angle: math.Pi / 2},
//	]
func ParseCUE(filename string, src []byte) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return DecodeCUE(v)
}

// DecodeCUE decodes a compiled CUE value holding a "program" field.
func DecodeCUE(v cue.Value) (*Document, error) {
	prog := v.LookupPath(cue.ParsePath(ProgramField))
	if !prog.Exists() {
		return nil, &CompileError{
			Code:      ErrCodeMalformedStatement,
			Statement: -1,
			Field:     ProgramField,
			Message:   "top-level program field is required",
			Pos:       v.Pos(),
		}
	}
	if err := prog.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc Document
	if err := prog.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return &doc, nil
}
