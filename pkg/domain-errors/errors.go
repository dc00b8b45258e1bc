// Package domainerrors defines coded errors shared by services and transport.
//
// Services return these so handlers can translate outcomes into HTTP statuses
// without string matching. Infrastructure layers should return sentinel errors
// instead; services wrap them with a code at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping.
type Code string

const (
	// CodeNotFound means the identifier resolves to no live record.
	CodeNotFound Code = "not_found"
	// CodeValidation means a patch field failed its policy check.
	CodeValidation Code = "validation"
	// CodeUnauthorized means the caller's credentials were missing or wrong.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotImplemented means the field has no write path yet.
	CodeNotImplemented Code = "not_implemented"
	// CodeSuspended is the policy outcome of an age-triggered suspension.
	// It is not a generic failure: the suspension write has already happened.
	CodeSuspended Code = "suspended"
	// CodeInternal covers store or cache failures during a write.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Field is set for validation failures so
// callers can tell which patch field was rejected.
type Error struct {
	Code    Code
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with a code and a user-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewField builds a validation-style error attributed to a single field.
func NewField(code Code, field, message string) *Error {
	return &Error{Code: code, Field: field, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// FieldOf returns the rejected field of a validation error, or "".
func FieldOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}
