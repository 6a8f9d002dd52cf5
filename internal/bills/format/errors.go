package format

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned when input cannot be parsed at all.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnsupportedValue is returned when input parses but names an unknown value.
	ErrUnsupportedValue = errors.New("unsupported value")
)

const (
	KindMalformed   = "malformed"
	KindUnsupported = "unsupported"
)

// Error describes a failed formatting operation.
type Error struct {
	Op    string
	Input string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("format: %s %q: %v", e.Op, e.Input, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Kind classifies err as KindMalformed or KindUnsupported; empty otherwise.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedInput):
		return KindMalformed
	case errors.Is(err, ErrUnsupportedValue):
		return KindUnsupported
	default:
		return ""
	}
}

func malformed(op, input string) error {
	return &Error{Op: op, Input: input, Err: ErrMalformedInput}
}

func unsupported(op, input string) error {
	return &Error{Op: op, Input: input, Err: ErrUnsupportedValue}
}
