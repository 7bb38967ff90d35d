package apperr

import (
	"errors"
	"net/http"
)

// Error carries a human-readable message together with the HTTP status code
// the boundary should answer with. Every service operation reports failures
// through this type; handlers never pick status codes on their own.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	cause      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func Validation(msg string) *Error {
	return &Error{Message: msg, StatusCode: http.StatusBadRequest}
}

func NotFound(msg string) *Error {
	return &Error{Message: msg, StatusCode: http.StatusNotFound}
}

func Forbidden(msg string) *Error {
	return &Error{Message: msg, StatusCode: http.StatusForbidden}
}

// Upstream wraps a failure from an external collaborator (store, image
// host). The original error stays reachable via errors.Unwrap for logging,
// the client only ever sees msg.
func Upstream(msg string, cause error) *Error {
	return &Error{Message: msg, StatusCode: http.StatusBadGateway, cause: cause}
}

// From extracts an *Error from err, or nil if err is not one.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
