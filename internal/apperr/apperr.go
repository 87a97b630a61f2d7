// Package apperr defines the error type handlers return to the HTTP layer.
// The global error handler renders it as {"error": ...} with the carried
// status code.
package apperr

import "net/http"

// Error is an HTTP-mapped application error.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// WithDetails attaches extra context shown only in development responses.
func (e *Error) WithDetails(details string) *Error {
	c := *e
	c.Details = details
	return &c
}
