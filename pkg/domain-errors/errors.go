// Package domainerrors provides coded errors shared by services and the HTTP
// layer. Services create them, handlers translate them to status codes, and
// callers branch on the code rather than on error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and retry decisions.
type Code string

const (
	// CodeValidation marks bad input: a missing or malformed field, or an
	// unknown category/tier/sort value. Never retryable.
	CodeValidation Code = "validation_error"
	// CodeNotFound marks a lookup that matched nothing.
	CodeNotFound Code = "not_found"
	// CodeUnavailable marks a transient infrastructure failure before any
	// side effect happened. Safe to retry as-is.
	CodeUnavailable Code = "unavailable"
	// CodeConflict marks an operation that lost an atomicity race.
	CodeConflict Code = "conflict"
	// CodeTimeout marks a caller-imposed deadline that expired mid-operation.
	CodeTimeout Code = "timeout"
	// CodeInternal marks everything else; details stay in the logs.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Field is set for validation errors that can
// name the offending input field.
type Error struct {
	Code    Code
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a static message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause, preserving the
// chain for errors.Is/As.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithField annotates a validation error with the field it refers to.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status. Unknown codes map to 500 so a
// forgotten case fails loudly in tests rather than leaking a 200.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
