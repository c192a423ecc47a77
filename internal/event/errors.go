package event

import "errors"

var (
	ErrInputNotFound  = errors.New("input file not found")
	ErrMalformedInput = errors.New("malformed input record")
	ErrReadFailed     = errors.New("failed to read input")
)
