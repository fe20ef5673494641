// Package ir provides the constrained value types used as sequence elements
// in scripted scenarios, plus their canonical serialization.
//
// This package imports nothing internal. Every other internal package may
// import ir.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - NO null - an absent value is a nil Value, never a stored element
//   - All JSON tags use snake_case
//   - Identity is content-addressed over RFC 8785 canonical JSON
package ir
