package ir

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	ErrCodeReference          = "E201" // qubit index not declared
	ErrCodeArity              = "E202" // operand count mismatch for gate kind
	ErrCodeMissingAngle       = "E203" // parameterized gate without angle
	ErrCodeInvalidDeclaration = "E204" // bad register size or name
	ErrCodeDuplicateOperand   = "E205" // same qubit used twice in one gate
)

// ValidationError represents one structural violation in a program.
type ValidationError struct {
	Code      string `json:"code"`
	Statement int    `json:"statement"` // index into Program.Statements
	Message   string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] statement %d: %s", e.Code, e.Statement, e.Message)
}

// ValidationErrors collects every violation found in a program.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Validate checks a program against qubitCount, the number of qubits the
// consumer will allocate. Returns nil or ValidationErrors holding every
// violation (does not fail fast).
//
// A qubit reference must be below both qubitCount and the number of
// qubits declared by statements preceding it.
func Validate(p Program, qubitCount int) error {
	var errs ValidationErrors
	add := func(code string, idx int, format string, args ...any) {
		errs = append(errs, &ValidationError{
			Code:      code,
			Statement: idx,
			Message:   fmt.Sprintf(format, args...),
		})
	}

	declared := 0
	registers := make(map[string]bool)

	checkRef := func(idx, q int) {
		switch {
		case q < 0:
			add(ErrCodeReference, idx, "negative qubit index %d", q)
		case q >= declared:
			add(ErrCodeReference, idx, "qubit %d not declared (%d declared so far)", q, declared)
		case q >= qubitCount:
			add(ErrCodeReference, idx, "qubit %d exceeds qubit count %d", q, qubitCount)
		}
	}

	for i, s := range p.Statements {
		switch st := s.(type) {
		case Declaration:
			if strings.TrimSpace(st.Register) == "" {
				add(ErrCodeInvalidDeclaration, i, "register name is required")
			} else if registers[st.Register] {
				add(ErrCodeInvalidDeclaration, i, "duplicate register %q", st.Register)
			}
			registers[st.Register] = true
			if st.Size <= 0 {
				add(ErrCodeInvalidDeclaration, i, "register %q must have positive size, got %d", st.Register, st.Size)
				continue
			}
			declared += st.Size

		case GateApplication:
			if info, ok := LookupGate(st.Gate); ok {
				if info.Arity == Variadic {
					if len(st.Operands) == 0 {
						add(ErrCodeArity, i, "%s requires at least one operand", st.Gate)
					}
				} else if len(st.Operands) != info.Arity {
					add(ErrCodeArity, i, "%s takes %d operand(s), got %d", st.Gate, info.Arity, len(st.Operands))
				}
				if info.NeedsAngle && st.Angle == nil {
					add(ErrCodeMissingAngle, i, "%s requires an angle", st.Gate)
				}
			}
			seen := make(map[int]bool, len(st.Operands))
			for _, q := range st.Operands {
				checkRef(i, q)
				if seen[q] {
					add(ErrCodeDuplicateOperand, i, "%s uses qubit %d more than once", st.Gate, q)
				}
				seen[q] = true
			}

		case Measurement:
			checkRef(i, st.Qubit)

		default:
			add(ErrCodeInvalidDeclaration, i, "unknown statement type %T", s)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateDeclared validates a program against its own declarations.
func ValidateDeclared(p Program) error {
	return Validate(p, DeclaredQubits(p))
}

// IsReferenceError returns true if err contains an undeclared-qubit error.
func IsReferenceError(err error) bool {
	return hasCode(err, ErrCodeReference)
}

// IsArityError returns true if err contains an operand-count error.
func IsArityError(err error) bool {
	return hasCode(err, ErrCodeArity)
}

// IsMissingAngleError returns true if err contains a missing-angle error.
func IsMissingAngleError(err error) bool {
	return hasCode(err, ErrCodeMissingAngle)
}

// Codes returns the validation codes contained in err, in order.
func Codes(err error) []string {
	var errs ValidationErrors
	if errors.As(err, &errs) {
		codes := make([]string, len(errs))
		for i, e := range errs {
			codes[i] = e.Code
		}
		return codes
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []string{ve.Code}
	}
	return nil
}

func hasCode(err error, code string) bool {
	for _, c := range Codes(err) {
		if c == code {
			return true
		}
	}
	return false
}
