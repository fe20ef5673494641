package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSequence = "fallible/sequence/v1"
	DomainOp       = "fallible/op/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00}) // Null separator - CRITICAL
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SequenceDigest computes a content-addressed digest of an ordered
// sequence of values. Equal sequences have equal digests; order matters.
func SequenceDigest(vals []Value) (string, error) {
	canonical, err := MarshalCanonical(Array(vals))
	if err != nil {
		return "", fmt.Errorf("SequenceDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSequence, canonical), nil
}

// OpID computes the content-addressed ID of one journaled operation.
// arg is the inserted value and may be nil for operations without one.
func OpID(runID string, seq int64, op string, index int64, arg Value) (string, error) {
	obj := Object{
		"run_id": String(runID),
		"seq":    Int(seq),
		"op":     String(op),
		"index":  Int(index),
	}
	if arg != nil {
		obj["arg"] = arg
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("OpID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOp, canonical), nil
}

// MustSequenceDigest is like SequenceDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSequenceDigest(vals []Value) string {
	d, err := SequenceDigest(vals)
	if err != nil {
		panic(err)
	}
	return d
}
