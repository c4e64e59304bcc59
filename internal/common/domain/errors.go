package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors for transport mapping.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindValidation       ErrorKind = "validation"
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindUnsupportedState ErrorKind = "unsupported_state"
	KindConflict         ErrorKind = "conflict"
)

// Error is a typed domain error. Two errors match under errors.Is when their codes are equal,
// so a sentinel can be re-issued with a more specific message and still be recognised.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy of the error with a formatted message.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFoundError creates an error surfaced to callers as "not found".
func NewNotFoundError(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// NewValidationError creates an error surfaced to callers as "bad request".
func NewValidationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewInvalidArgumentError creates an error for rejected mutations such as uniqueness violations.
func NewInvalidArgumentError(code, message string) *Error {
	return &Error{Kind: KindInvalidArgument, Code: code, Message: message}
}

// NewConflictError creates an error for concurrent modification.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

// ErrUnsupportedState is the sentinel for an unrecognised enum value in a query.
var ErrUnsupportedState = &Error{Kind: KindUnsupportedState, Code: "UNSUPPORTED_STATE", Message: "unsupported state"}

// NewUnsupportedStateError names the offending value.
func NewUnsupportedStateError(value string) *Error {
	return ErrUnsupportedState.Withf("Unknown state: %s", value)
}

// ErrMalformedRequest covers unparsable transport input (ids, bodies, query params).
var ErrMalformedRequest = NewValidationError("MALFORMED_REQUEST", "malformed request")

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// CodeOf returns the code of the first domain error in err's chain.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
