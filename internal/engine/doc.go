// Package engine implements the QLite statevector simulator.
//
// The engine owns a dense array of 2^n complex amplitudes and applies IR
// gate statements to it in place.
//
// ARCHITECTURE:
//
// Bit convention:
// Qubit 0 is the most significant bit of a basis index. With n qubits,
// qubit q selects bit n-1-q. Gate application, controlled-gate bit tests
// and bitstring formatting all go through qubitMask, so the convention
// cannot drift between them.
//
// Gate application:
//   - Single-qubit gates transform amplitude pairs that differ only in the
//     target bit, using the four entries of a 2x2 matrix. O(2^n) per gate;
//     the full 2^n x 2^n operator is never built.
//   - CNOT, CZ and CP touch only indices whose control bit is 1.
//   - SWAP is three CNOTs, matching the hardware decomposition.
//   - CCNOT is a direct two-control bit test.
//
// Resources:
// Memory is the only resource. New refuses qubit counts above the
// configured ceiling before allocating anything.
//
// Concurrency:
// An Engine is not safe for concurrent use. It is built once per run,
// owned by one caller and discarded afterwards. A failed Run poisons the
// engine; every later mutating call returns ErrCodePoisoned.
package engine
