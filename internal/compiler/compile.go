package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/qlite/internal/ir"
)

// Supported document extensions.
var SupportedExtensions = []string{".yaml", ".yml", ".json", ".cue"}

// ParseDocument decodes src according to the extension of filename.
func ParseDocument(filename string, src []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return ParseYAML(src)
	case ".json":
		return ParseJSON(src)
	case ".cue":
		return ParseCUE(filename, src)
	default:
		return nil, &CompileError{
			Code:      ErrCodeSyntax,
			Statement: -1,
			Field:     "file",
			Message:   fmt.Sprintf("unsupported extension %q (want one of %v)", filepath.Ext(filename), SupportedExtensions),
		}
	}
}

// Compile resolves a document and validates the resulting program
// against its own declarations. Any error here is a compile-time error:
// nothing downstream may run on the program.
func Compile(doc *Document) (ir.Program, error) {
	p, err := CompileDocument(doc)
	if err != nil {
		return ir.Program{}, err
	}
	if err := ir.ValidateDeclared(p); err != nil {
		return ir.Program{}, err
	}
	return p, nil
}

// CompileSource parses and compiles a document in one step.
func CompileSource(filename string, src []byte) (ir.Program, *Document, error) {
	doc, err := ParseDocument(filename, src)
	if err != nil {
		return ir.Program{}, nil, err
	}
	p, err := Compile(doc)
	if err != nil {
		return ir.Program{}, doc, err
	}
	return p, doc, nil
}
