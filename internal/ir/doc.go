// Package ir provides the circuit intermediate representation for QLite.
//
// This package contains the program model, the static gate table and
// structural validation. All other internal packages import ir; ir
// imports nothing internal.
//
// Key design constraints:
//   - Statement is a sealed interface: Declaration, GateApplication and
//     Measurement are the only variants, and consumers switch exhaustively
//   - Qubit operands are flat 0-based indices across registers in
//     declaration order
//   - Qubit 0 is the most significant bit of a basis-state index
//   - Programs are values; passes build new programs instead of mutating
package ir
