package service

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for the HTTP boundary.
type Kind int

// Error kinds, classified at the point of detection.
const (
	// KindInternal is an unexpected failure; details are logged, not echoed.
	KindInternal Kind = iota
	// KindValidation is malformed or missing input.
	KindValidation
	// KindAuthentication is a bad credential or unknown API key.
	KindAuthentication
	// KindAuthorization is a valid identity acting on a resource it does not own.
	KindAuthorization
	// KindConflict is a duplicate bind or duplicate registration.
	KindConflict
	// KindNotFound is a missing credential or key to operate on.
	KindNotFound
	// KindUpstream is a provider API rejection; this service never retries.
	KindUpstream
)

// Error is a domain error carrying a message and a status classification.
// It is surfaced unmodified to the HTTP boundary.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// HTTPStatus maps the error kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindNotFound:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Constructors for each error kind.

// ErrValidation builds a validation error.
func ErrValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ErrAuthentication builds an authentication error.
func ErrAuthentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// ErrAuthorization builds an authorization error.
func ErrAuthorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// ErrConflict builds a conflict error.
func ErrConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// ErrNotFound builds a not-found error.
func ErrNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// ErrUpstream builds an upstream-send error.
func ErrUpstream(message string) *Error {
	return &Error{Kind: KindUpstream, Message: message}
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Kind == kind
}
