// Package errors provides structured error types for the rauzy engine.
//
// Every failure the engine can produce carries a machine-readable [Code] so
// that callers branch on the kind of failure rather than on message text:
//   - MALFORMED_PERMUTATION: a permutation violates its structural invariants
//   - REDUCIBLE_SEED: a reducible permutation was offered to the Rauzy diagram
//   - DEGENERATE_INDUCTION: an induction step hit a tie (saddle connection)
//   - INVALID_*, NOT_*: input validation failures
//   - LIMIT_EXCEEDED, INTERNAL_ERROR: resource bounds and unexpected failures
//
// # Usage
//
//	p2, l2, step, err := induction.Apply(p, lengths)
//	if errors.Is(err, errors.ErrCodeDegenerateInduction) {
//	    // close a cylinder
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors
	ErrCodeMalformedPermutation Code = "MALFORMED_PERMUTATION"
	ErrCodeReducibleSeed        Code = "REDUCIBLE_SEED"
	ErrCodeDegenerateInduction  Code = "DEGENERATE_INDUCTION"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidLengths Code = "INVALID_LENGTHS"
	ErrCodeInvalidCover   Code = "INVALID_COVER"
	ErrCodeNotOrientable  Code = "NOT_ORIENTABLE"
	ErrCodeNotFlipped     Code = "NOT_FLIPPED"

	// Resource errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeLimitExceeded Code = "LIMIT_EXCEEDED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error makes a Code usable as a target of the standard errors.Is, which
// then matches any *Error in the chain carrying that code.
func (c Code) Error() string { return string(c) }

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a [Code] target equal to e.Code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with cause underneath.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any error in err's chain carries code, so a
// REDUCIBLE_SEED wrapped inside an INVALID_INPUT matches both.
func Is(err error, code Code) bool {
	return errors.Is(err, code)
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// prefix, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
