// Package domainerrors provides code-carrying errors that services return and
// the transport layer translates into HTTP responses. Stores should return
// sentinel errors (pkg/platform/sentinel) instead and let services wrap them.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for transport translation.
type Code string

const (
	CodeBadRequest        Code = "bad_request"
	CodeUnauthorized      Code = "unauthorized"
	CodeForbidden         Code = "forbidden"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodeMalformedTemplate Code = "malformed_template"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal          Code = "internal"
)

// Error is a value type so two errors with the same code and message compare
// equal under errors.Is, which keeps tests and sentinel-style comparisons cheap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and message.
func New(code Code, message string) Error {
	return Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(cause error, code Code, message string) Error {
	return Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code Code) bool {
	var de Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// ToHTTPStatus maps a domain error code to an HTTP status code.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeMalformedTemplate, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
