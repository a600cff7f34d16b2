package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qlite/internal/ir"
)

// MarshalDocument renders a program back into its document form, turning
// flat indices into register references.
func MarshalDocument(p ir.Program, name string) (*Document, error) {
	layout := ir.NewLayout(p)
	doc := &Document{
		Version:    ir.IRVersion,
		Name:       name,
		Statements: make([]StatementDoc, 0, len(p.Statements)),
	}

	ref := func(i, q int) (string, error) {
		r, ok := layout.Ref(q)
		if !ok {
			return "", fmt.Errorf("statement %d: qubit %d is not declared", i, q)
		}
		return r.String(), nil
	}

	for i, s := range p.Statements {
		switch st := s.(type) {
		case ir.Declaration:
			doc.Statements = append(doc.Statements, StatementDoc{
				Qubit: &RegisterDoc{Name: st.Register, Size: st.Size},
			})
		case ir.GateApplication:
			sd := StatementDoc{Gate: string(st.Gate)}
			for _, q := range st.Operands {
				r, err := ref(i, q)
				if err != nil {
					return nil, err
				}
				sd.Qubits = append(sd.Qubits, r)
			}
			if st.Angle != nil {
				sd.Angle = ir.Angle(*st.Angle)
			}
			doc.Statements = append(doc.Statements, sd)
		case ir.Measurement:
			r, err := ref(i, st.Qubit)
			if err != nil {
				return nil, err
			}
			doc.Statements = append(doc.Statements, StatementDoc{Measure: r, Into: st.ClassicalBit})
		default:
			return nil, fmt.Errorf("statement %d: unsupported statement type %T", i, s)
		}
	}
	return doc, nil
}

// EncodeYAML writes a document as YAML with two-space indentation.
func EncodeYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON writes a document as indented JSON.
func EncodeJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}
