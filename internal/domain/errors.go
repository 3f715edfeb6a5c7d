// Package domain holds types shared by every layer of the rental service:
// the error taxonomy and the caller identity. It depends on nothing above it.
package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure for transport mapping and user messaging.
type ErrorCode string

const (
	CodeUnauthenticated ErrorCode = "unauthenticated"
	CodeForbidden       ErrorCode = "forbidden"
	CodeConflict        ErrorCode = "conflict"
	CodeNotFound        ErrorCode = "not_found"
	CodeValidation      ErrorCode = "validation"
	CodeServerError     ErrorCode = "server_error"
)

// Error is the typed failure returned by domain and application code.
// The Message is safe to forward to end users.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// NewUnauthenticatedError reports a missing or rejected credential.
func NewUnauthenticatedError(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message}
}

// NewForbiddenError reports an authenticated caller acting outside its rights.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewConflictError reports a state precondition that no longer holds,
// most importantly an attempt to book a car that is not available.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewInvalidStateError reports an illegal status transition as a conflict.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewNotFoundError reports a referenced entity that no longer exists.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewValidationError reports rejected input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewServerError reports an opaque failure, keeping the cause for logs.
func NewServerError(message string, cause error) *Error {
	return &Error{Code: CodeServerError, Message: message, cause: cause}
}

// CodeOf extracts the ErrorCode from err, or CodeServerError for untyped errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeServerError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
