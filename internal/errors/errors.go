// Package errors provides standardized domain errors with codes for the mediashelf gateway.
//
// Usage:
//
//	// In the validator - return typed errors
//	if req.Table == "" {
//	    return errors.Validation("missing table")
//	}
//
//	// At the dispatch boundary - wrap store failures with correlation fields
//	if err != nil {
//	    return errors.Backend(err).WithTable(table).WithLocation(kind)
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrUnauthorized) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeValidation           Code = "VALIDATION"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeMethodNotAllowed     Code = "METHOD_NOT_ALLOWED"
	CodeUnsupportedMediaType Code = "UNSUPPORTED_MEDIA_TYPE"
	CodeTooManyRequests      Code = "TOO_MANY_REQUESTS"
	CodeBackend              Code = "BACKEND"
	CodeInternal             Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional correlation fields.
// Table and Location echo the originating request so callers can match
// failures to the action that produced them.
type Error struct {
	Code     Code   `json:"code"`
	Message  string `json:"message"`
	Table    string `json:"table,omitempty"`
	Location string `json:"location,omitempty"`
	cause    error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithTable returns a copy of the error tagged with the originating table.
func (e *Error) WithTable(table string) *Error {
	c := *e
	c.Table = table
	return &c
}

// WithLocation returns a copy of the error tagged with the originating location.
func (e *Error) WithLocation(location string) *Error {
	c := *e
	c.Location = location
	return &c
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation           = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnauthorized         = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrMethodNotAllowed     = &Error{Code: CodeMethodNotAllowed, Message: "method not allowed"}
	ErrUnsupportedMediaType = &Error{Code: CodeUnsupportedMediaType, Message: "unsupported media type"}
	ErrTooManyRequests      = &Error{Code: CodeTooManyRequests, Message: "too many requests"}
	ErrBackend              = &Error{Code: CodeBackend, Message: "backend error"}
	ErrInternal             = &Error{Code: CodeInternal, Message: "internal server error"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Backend wraps a MediaStore failure. The message is the cause's text so
// the caller sees what the backend reported.
func Backend(err error) *Error {
	msg := ErrBackend.Message
	if err != nil {
		msg = err.Error()
	}
	return &Error{Code: CodeBackend, Message: msg, cause: err}
}
