package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/qlite/internal/compiler"
	"github.com/roach88/qlite/internal/engine"
	"github.com/roach88/qlite/internal/ir"
)

// CLI-level error codes. Program errors keep their own codes (E1xx compile,
// E2xx validation, engine runtime codes).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Run store error
	ErrCodeTestFailed  = "E_TEST_FAILED"
)

// LoadedProgram is a compiled program document.
type LoadedProgram struct {
	Path     string
	Name     string // document name, or the file name without extension
	Document *compiler.Document
	Program  ir.Program
}

// LoadError represents a failure to read a program file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadProgram reads and compiles a program document. A missing or
// unreadable file is a *LoadError; anything else is a program error.
func LoadProgram(path string) (*LoadedProgram, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("program file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing program file: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading program file: %v", err)}
	}

	p, doc, err := compiler.CompileSource(path, src)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if doc.Name != "" {
		name = doc.Name
	}
	return &LoadedProgram{Path: path, Name: name, Document: doc, Program: p}, nil
}

// ErrorDetail is one coded problem with a program.
type ErrorDetail struct {
	Code      string `json:"code"`
	Statement int    `json:"statement"` // -1 when not tied to a statement
	Line      int    `json:"line,omitempty"`
	Message   string `json:"message"`
}

// errorDetails flattens every coded error in err.
func errorDetails(err error) []ErrorDetail {
	var out []ErrorDetail

	var ces compiler.CompileErrors
	var ce *compiler.CompileError
	var ves ir.ValidationErrors
	var ve *ir.ValidationError
	var re *engine.RuntimeError
	var le *LoadError

	switch {
	case errors.As(err, &ces):
		for _, e := range ces {
			out = append(out, compileDetail(e))
		}
	case errors.As(err, &ce):
		out = append(out, compileDetail(ce))
	case errors.As(err, &ves):
		for _, e := range ves {
			out = append(out, ErrorDetail{Code: e.Code, Statement: e.Statement, Message: e.Message})
		}
	case errors.As(err, &ve):
		out = append(out, ErrorDetail{Code: ve.Code, Statement: ve.Statement, Message: ve.Message})
	case errors.As(err, &re):
		out = append(out, ErrorDetail{Code: string(re.Code), Statement: re.Statement, Message: re.Message})
	case errors.As(err, &le):
		out = append(out, ErrorDetail{Code: le.Code, Statement: -1, Line: lineOf(le.Pos), Message: le.Message})
	default:
		out = append(out, ErrorDetail{Code: ErrCodeGeneric, Statement: -1, Message: err.Error()})
	}
	return out
}

func compileDetail(e *compiler.CompileError) ErrorDetail {
	return ErrorDetail{Code: e.Code, Statement: e.Statement, Line: lineOf(e.Pos), Message: e.Message}
}

func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// reportProgramError prints a program error and returns the matching
// exit error: file problems are command errors, everything else a failure.
func reportProgramError(f *OutputFormatter, err error) error {
	details := errorDetails(err)

	var le *LoadError
	if errors.As(err, &le) {
		_ = f.Error(le.Code, le.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", le.Code, le.Message))
	}

	if f.IsJSON() {
		_ = f.Error(details[0].Code, details[0].Message, details)
	} else {
		fmt.Fprintln(f.Writer, "✗ Program invalid")
		fmt.Fprintln(f.Writer)
		for _, d := range details {
			if d.Line > 0 {
				fmt.Fprintf(f.Writer, "line %d\n", d.Line)
			}
			if d.Statement >= 0 {
				fmt.Fprintf(f.Writer, "  %s: statement %d: %s\n", d.Code, d.Statement, d.Message)
			} else {
				fmt.Fprintf(f.Writer, "  %s: %s\n", d.Code, d.Message)
			}
		}
	}
	return WrapExitError(ExitFailure, fmt.Sprintf("program failed with %d error(s)", len(details)), err)
}
