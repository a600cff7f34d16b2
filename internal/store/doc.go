// Package store provides SQLite-backed durable storage for QLite runs.
//
// The store is append-only and holds:
//   - Programs: canonical IR keyed by content hash
//   - Runs: one simulation of a program with its seed, probabilities,
//     measurements and transpiled QASM
//
// # Ordering
//
// Runs carry a seq INTEGER assigned at write time. All list queries use
// ORDER BY seq ASC, id ASC COLLATE BINARY, so results are identical
// across reads regardless of wall time.
//
// # Content Addressing
//
// Program hashes come from ir.ProgramHash (canonical JSON, SHA-256 with
// domain separation). Writing the same program twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
