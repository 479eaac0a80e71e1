// internal/pkg/apperr/apperr.go
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error for propagation and HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindNotFound               // user, book, cart, line item, order
	KindBusinessRule           // insufficient stock, empty cart, over-removal
	KindUpstream               // store unavailable, collaborator failure
)

// Error is the application error type carried across service boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes two apperr errors equal when kind and message match, so services
// can expose sentinel errors that survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// BusinessRule creates a business-rule violation.
func BusinessRule(message string) *Error {
	return &Error{Kind: KindBusinessRule, Message: message}
}

// Upstream wraps an unexpected store or collaborator failure.
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf extracts the kind of an error chain; unknown errors are upstream.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// HTTPStatus maps an error chain to the conventional status code:
// 400 for validation and business-rule errors, 404 for not found,
// 500 for everything unexpected.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to surface to clients. Upstream
// failures are masked so internal detail does not leak.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUpstream {
		return e.Message
	}
	return "internal server error"
}
