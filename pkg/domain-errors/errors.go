// Package domainerrors defines the coded error values services return and the
// transport layer translates into HTTP responses. Infrastructure layers should
// prefer pkg/platform/sentinel and let services attach codes here.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for transport mapping.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// GatewayError is a value type so two errors with the same code and message
// compare equal under errors.Is. Tests rely on that.
type GatewayError struct {
	Code    Code
	Message string
}

func (e GatewayError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a coded domain error.
func New(code Code, message string) GatewayError {
	return GatewayError{Code: code, Message: message}
}

// Wrap attaches a code to an underlying error while preserving the chain for
// errors.Is/As on both the code and the cause.
func Wrap(code Code, message string, err error) error {
	return wrappedError{coded: GatewayError{Code: code, Message: message}, cause: err}
}

type wrappedError struct {
	coded GatewayError
	cause error
}

func (e wrappedError) Error() string {
	if e.cause == nil {
		return e.coded.Error()
	}
	return e.coded.Error() + ": " + e.cause.Error()
}

func (e wrappedError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.coded}
	}
	return []error{e.coded, e.cause}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var gw GatewayError
	if errors.As(err, &gw) {
		return gw.Code == code
	}
	return false
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
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
