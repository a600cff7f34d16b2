package compiler

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Compile error codes (E100-E199)
const (
	ErrCodeBadReference       = "E101" // qubit reference does not parse
	ErrCodeUnknownRegister    = "E102" // reference names an undeclared register
	ErrCodeIndexOutOfRange    = "E103" // reference index outside its register
	ErrCodeMalformedStatement = "E104" // statement has no or several kinds
	ErrCodeUnsupportedVersion = "E105" // document version not accepted
	ErrCodeSyntax             = "E106" // YAML/JSON/CUE syntax error
)

// CompileError represents an error found while compiling an IR document.
type CompileError struct {
	Code      string
	Statement int // index into the document statements, -1 for document-level errors
	Field     string
	Message   string
	Pos       token.Pos // CUE position if available
}

func (e *CompileError) Error() string {
	loc := ""
	if e.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d: ", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	if e.Statement >= 0 {
		return fmt.Sprintf("%s[%s] statement %d: %s: %s", loc, e.Code, e.Statement, e.Field, e.Message)
	}
	return fmt.Sprintf("%s[%s] %s: %s", loc, e.Code, e.Field, e.Message)
}

// IsCompileError returns true if err is or wraps a CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Code: ErrCodeSyntax, Statement: -1, Field: "cue", Message: err.Error()}
	}

	// Return first error with position info
	first := errs[0]
	ce := &CompileError{Code: ErrCodeSyntax, Statement: -1, Field: "cue", Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
