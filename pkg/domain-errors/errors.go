// Package domainerrors defines the coded error type shared by services and transports.
//
// Services return *Error values; transports map the Code to a wire status.
// Infrastructure facts (not found, already used) live in pkg/platform/sentinel and
// are translated into coded errors at the service boundary.
package domainerrors

import (
	"errors"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation covers malformed or empty required fields and unknown enum values.
	CodeValidation Code = "validation_error"
	// CodeBadRequest covers transport-level input that could not be decoded.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized means the caller cannot be resolved to the required principal.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden means the caller was resolved but may not act on the target.
	CodeForbidden Code = "forbidden"
	CodeNotFound  Code = "not_found"
	CodeConflict  Code = "conflict"
	// CodeInvalidState means the requested transition is not allowed from the current state.
	CodeInvalidState Code = "invalid_state"
	// CodeInvariantViolation is raised by model constructors; services convert it to CodeValidation.
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error with the same code and message.
// It lets tests compare against a freshly constructed error with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the outermost domain error, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the client-facing message of the outermost domain error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
