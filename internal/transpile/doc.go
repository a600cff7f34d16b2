// Package transpile renders IR programs as OpenQASM 2.0 text.
//
// Output is byte-stable: the same program always produces the same text,
// every line ends with a newline and floats use the shortest
// representation that round-trips.
package transpile
