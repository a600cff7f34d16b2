package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/qlite/internal/ir"
)

// RuntimeError represents an error detected by the statevector engine.
//
// Runtime errors include:
//   - Unsupported gate: the engine has no handler for a gate kind
//   - Resource limit: requested qubit count exceeds the configured ceiling
//   - Invalid operands: operand count, range or angle does not fit the gate
//   - Poisoned: the engine failed earlier in a run and must be discarded
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Gate is the gate being applied, if any.
	Gate ir.GateKind

	// Statement is the program index being executed, or -1.
	Statement int

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnsupportedGate indicates the engine cannot execute a gate kind.
	ErrCodeUnsupportedGate RuntimeErrorCode = "UNSUPPORTED_GATE"

	// ErrCodeResourceLimit indicates the qubit count exceeds the ceiling.
	ErrCodeResourceLimit RuntimeErrorCode = "RESOURCE_LIMIT"

	// ErrCodeInvalidQubitCount indicates a qubit count below one.
	ErrCodeInvalidQubitCount RuntimeErrorCode = "INVALID_QUBIT_COUNT"

	// ErrCodeInvalidOperands indicates operands or angle do not fit the gate.
	ErrCodeInvalidOperands RuntimeErrorCode = "INVALID_OPERANDS"

	// ErrCodeInvalidConfig indicates an engine option is out of range.
	ErrCodeInvalidConfig RuntimeErrorCode = "INVALID_CONFIG"

	// ErrCodePoisoned indicates a previous run failed on this engine.
	ErrCodePoisoned RuntimeErrorCode = "ENGINE_POISONED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Statement >= 0 {
		return fmt.Sprintf("%s: %s (statement=%d)", e.Code, e.Message, e.Statement)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasRuntimeCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsUnsupportedGateError returns true if the error is an unsupported gate error.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedGateError(err error) bool {
	return hasRuntimeCode(err, ErrCodeUnsupportedGate)
}

// IsResourceLimitError returns true if the error is a resource limit error.
func IsResourceLimitError(err error) bool {
	return hasRuntimeCode(err, ErrCodeResourceLimit)
}

// IsInvalidOperandsError returns true if the error is an invalid operands error.
func IsInvalidOperandsError(err error) bool {
	return hasRuntimeCode(err, ErrCodeInvalidOperands)
}

// IsPoisonedError returns true if the engine was poisoned by an earlier failure.
func IsPoisonedError(err error) bool {
	return hasRuntimeCode(err, ErrCodePoisoned)
}

// NewUnsupportedGateError creates a RuntimeError naming the gate.
func NewUnsupportedGateError(gate ir.GateKind, reason string) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeUnsupportedGate,
		Message:   fmt.Sprintf("unsupported gate %q: %s", gate, reason),
		Gate:      gate,
		Statement: -1,
	}
}

// NewResourceLimitError creates a RuntimeError for an oversized register.
func NewResourceLimitError(qubits, maxQubits int) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeResourceLimit,
		Message:   fmt.Sprintf("%d qubits exceeds the configured ceiling of %d", qubits, maxQubits),
		Statement: -1,
		Details: map[string]string{
			"qubits":     fmt.Sprintf("%d", qubits),
			"max_qubits": fmt.Sprintf("%d", maxQubits),
		},
	}
}

func newOperandError(gate ir.GateKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeInvalidOperands,
		Message:   fmt.Sprintf("%s: ", gate) + fmt.Sprintf(format, args...),
		Gate:      gate,
		Statement: -1,
	}
}
