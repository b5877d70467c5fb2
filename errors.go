package prims

import "errors"

var (
	// ErrInvalidKey is returned when a key's length is not supported by the target algorithm.
	ErrInvalidKey = errors.New("invalid key")

	// ErrIllegalState is returned when an operation is attempted before a key is set.
	ErrIllegalState = errors.New("secret key isn't set")

	// ErrOutOfRange is returned when an offset or length violates buffer bounds, or when a length
	// fails a required exact-match or alignment constraint.
	ErrOutOfRange = errors.New("out of range")

	// ErrNotImplemented is returned for generation or compute variants which are structurally
	// meaningless for a primitive.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupported is returned when a fixed or varying entry point is called on a primitive of a
	// different shape, or when an engine algorithm name is unknown.
	ErrUnsupported = errors.New("unsupported operation")
)
