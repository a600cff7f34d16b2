package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainProgram is the domain prefix for program hashes.
// Version suffix enables future algorithm migration.
const DomainProgram = "qlite/program/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProgramHash computes the content-addressed identity of a program.
// Two programs hash equal iff their canonical encodings are equal.
func ProgramHash(p Program) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("ProgramHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}

// MustProgramHash is like ProgramHash but panics on error.
// Use only in tests or when the program is known to be well-formed.
func MustProgramHash(p Program) string {
	h, err := ProgramHash(p)
	if err != nil {
		panic(err)
	}
	return h
}
