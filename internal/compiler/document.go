package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qlite/internal/ir"
)

// SupportedVersions is the semver constraint documents must satisfy.
const SupportedVersions = "^1.0.0"

// Document is the serialized form of a program. Qubits are referenced by
// register name, e.g. "q[1]"; a bare register name in a gate operand
// list stands for every qubit of that register in order.
type Document struct {
	Version    string         `yaml:"version,omitempty" json:"version,omitempty"`
	Name       string         `yaml:"name,omitempty" json:"name,omitempty"`
	Statements []StatementDoc `yaml:"statements" json:"statements"`
}

// StatementDoc holds exactly one of Qubit, Gate or Measure.
type StatementDoc struct {
	// Declaration
	Qubit *RegisterDoc `yaml:"qubit,omitempty" json:"qubit,omitempty"`

	// Gate application
	Gate   string   `yaml:"gate,omitempty" json:"gate,omitempty"`
	Qubits []string `yaml:"qubits,omitempty" json:"qubits,omitempty"`
	Angle  *float64 `yaml:"angle,omitempty" json:"angle,omitempty"`

	// Measurement
	Measure string `yaml:"measure,omitempty" json:"measure,omitempty"`
	Into    string `yaml:"into,omitempty" json:"into,omitempty"`
}

// RegisterDoc declares a qubit register.
type RegisterDoc struct {
	Name string `yaml:"name" json:"name"`
	Size int    `yaml:"size" json:"size"`
}

// ParseYAML decodes a YAML document. Unknown fields are rejected.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &CompileError{Code: ErrCodeSyntax, Statement: -1, Field: "yaml", Message: err.Error()}
	}
	return &doc, nil
}

// ParseJSON decodes a JSON document. Unknown fields are rejected.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &CompileError{Code: ErrCodeSyntax, Statement: -1, Field: "json", Message: err.Error()}
	}
	return &doc, nil
}

// refPattern matches "name[index]" or a bare "name".
var refPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:\[\s*(\d+)\s*\])?\s*$`)

// CompileDocument resolves a document into an IR program.
//
// Register references resolve against declarations that precede the
// statement, so the flat index space grows in declaration order. All
// errors are collected; the first failing statement does not stop
// compilation of the rest.
func CompileDocument(doc *Document) (ir.Program, error) {
	if err := checkVersion(doc.Version); err != nil {
		return ir.Program{}, err
	}

	c := &docCompiler{layout: ir.NewLayout(ir.Program{})}
	stmts := make([]ir.Statement, 0, len(doc.Statements))
	for i, sd := range doc.Statements {
		if s, ok := c.statement(i, sd); ok {
			stmts = append(stmts, s)
		}
	}
	if len(c.errs) > 0 {
		return ir.Program{}, c.errs
	}
	return ir.NewProgram(stmts...), nil
}

// CompileErrors collects every error found in a document.
type CompileErrors []*CompileError

func (errs CompileErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d compile errors: %s", len(errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual errors to errors.As.
func (errs CompileErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

type docCompiler struct {
	layout *ir.Layout
	errs   CompileErrors
}

func (c *docCompiler) fail(idx int, code, field, format string, args ...any) {
	c.errs = append(c.errs, &CompileError{
		Code:      code,
		Statement: idx,
		Field:     field,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (c *docCompiler) statement(idx int, sd StatementDoc) (ir.Statement, bool) {
	kinds := 0
	if sd.Qubit != nil {
		kinds++
	}
	if sd.Gate != "" {
		kinds++
	}
	if sd.Measure != "" {
		kinds++
	}
	if kinds != 1 {
		c.fail(idx, ErrCodeMalformedStatement, "statement",
			"exactly one of qubit, gate or measure is required, found %d", kinds)
		return nil, false
	}

	switch {
	case sd.Qubit != nil:
		d := ir.Declare(sd.Qubit.Name, sd.Qubit.Size)
		// Structural problems (size, duplicates) are reported by ir.Validate;
		// only well-formed registers extend the layout.
		if _, dup := c.layout.Index(d.Register, 0); !dup && d.Size > 0 {
			c.layout.Add(d)
		}
		return d, true

	case sd.Gate != "":
		g := ir.GateApplication{Gate: ir.ParseGateKind(sd.Gate)}
		if sd.Angle != nil {
			g.Angle = ir.Angle(*sd.Angle)
		}
		ok := true
		for _, ref := range sd.Qubits {
			idxs, err := c.resolve(ref, true)
			if err != nil {
				c.fail(idx, err.code, "qubits", "%s", err.msg)
				ok = false
				continue
			}
			g.Operands = append(g.Operands, idxs...)
		}
		return g, ok

	default:
		if strings.TrimSpace(sd.Into) == "" {
			c.fail(idx, ErrCodeMalformedStatement, "into", "measurement needs a classical bit name")
			return nil, false
		}
		idxs, err := c.resolve(sd.Measure, false)
		if err != nil {
			c.fail(idx, err.code, "measure", "%s", err.msg)
			return nil, false
		}
		return ir.Measure(idxs[0], sd.Into), true
	}
}

type resolveError struct {
	code string
	msg  string
}

// resolve turns a reference into flat indices. Bare register names are
// allowed only when allowWhole is set.
func (c *docCompiler) resolve(ref string, allowWhole bool) ([]int, *resolveError) {
	m := refPattern.FindStringSubmatch(ref)
	if m == nil {
		return nil, &resolveError{ErrCodeBadReference, fmt.Sprintf("malformed qubit reference %q", ref)}
	}
	name := m[1]

	var reg *ir.Declaration
	for _, d := range c.layout.Registers() {
		if d.Register == name {
			reg = &d
			break
		}
	}
	if reg == nil {
		return nil, &resolveError{ErrCodeUnknownRegister, fmt.Sprintf("register %q is not declared", name)}
	}

	if m[2] == "" {
		if !allowWhole {
			return nil, &resolveError{ErrCodeBadReference, fmt.Sprintf("reference %q needs an index", ref)}
		}
		start, _ := c.layout.Index(name, 0)
		out := make([]int, reg.Size)
		for i := range out {
			out[i] = start + i
		}
		return out, nil
	}

	offset, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, &resolveError{ErrCodeBadReference, fmt.Sprintf("bad index in %q", ref)}
	}
	flat, ok := c.layout.Index(name, offset)
	if !ok {
		return nil, &resolveError{ErrCodeIndexOutOfRange,
			fmt.Sprintf("index %d out of range for register %s[%d]", offset, name, reg.Size)}
	}
	return []int{flat}, nil
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return &CompileError{Code: ErrCodeUnsupportedVersion, Statement: -1, Field: "version",
			Message: fmt.Sprintf("invalid version %q: %v", v, err)}
	}
	if !constraint.Check(ver) {
		return &CompileError{Code: ErrCodeUnsupportedVersion, Statement: -1, Field: "version",
			Message: fmt.Sprintf("version %s does not satisfy %s", ver, SupportedVersions)}
	}
	return nil
}
