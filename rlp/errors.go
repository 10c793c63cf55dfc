package rlp

import "errors"

var (
	// ErrExpectedString is returned when a list is encountered where a string was expected.
	ErrExpectedString = errors.New("rlp: expected string")

	// ErrExpectedList is returned when a string is encountered where a list was expected.
	ErrExpectedList = errors.New("rlp: expected list")

	// ErrEOL is returned when the end of the current list has been reached.
	ErrEOL = errors.New("rlp: end of list")

	// ErrCanonSize is returned when a value uses a non-canonical size encoding.
	ErrCanonSize = errors.New("rlp: non-canonical size information")

	// ErrCanonInt is returned when an integer is encoded with leading zeros.
	ErrCanonInt = errors.New("rlp: non-canonical integer encoding")

	// ErrUint64Range is returned when a decoded integer exceeds uint64 range.
	ErrUint64Range = errors.New("rlp: uint64 overflow")

	// ErrUnsupportedType is returned when encoding an unsupported Go type.
	ErrUnsupportedType = errors.New("rlp: unsupported type")

	// ErrTruncated is returned when the input ends inside a value.
	ErrTruncated = errors.New("rlp: input truncated")
)
