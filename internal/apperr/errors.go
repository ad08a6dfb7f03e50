// Package apperr defines the errors the HTTP API reports to clients and
// writes them as JSON.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with a stable code, a human-readable detail and the HTTP
// status it maps to.
type Error struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Status int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Detail
}

// WithDetail returns a copy of e carrying a different detail.
func (e *Error) WithDetail(detail string) *Error {
	return &Error{Code: e.Code, Detail: detail, Status: e.Status}
}

var (
	// ErrForbidden is returned when no credentials were presented, or the
	// account is not allowed to act.
	ErrForbidden = &Error{Code: "forbidden", Detail: "Not authenticated", Status: http.StatusForbidden}
	// ErrUnauthorized is returned when presented credentials were rejected.
	ErrUnauthorized = &Error{Code: "unauthorized", Detail: "Could not validate credentials", Status: http.StatusUnauthorized}
	// ErrInactiveUser is returned when a valid token belongs to a disabled account.
	ErrInactiveUser = &Error{Code: "forbidden", Detail: "Inactive user", Status: http.StatusForbidden}
	// ErrBadLogin is returned by the login endpoint for any credential mismatch.
	ErrBadLogin = &Error{Code: "unauthorized", Detail: "Incorrect email or password", Status: http.StatusUnauthorized}
	// ErrValidation is returned for malformed or incomplete requests.
	ErrValidation = &Error{Code: "validation_error", Detail: "Invalid request", Status: http.StatusUnprocessableEntity}
	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = &Error{Code: "not_found", Detail: "Resource not found", Status: http.StatusNotFound}
	// ErrConflict is returned when a write would break a uniqueness constraint.
	ErrConflict = &Error{Code: "conflict", Detail: "Resource already exists", Status: http.StatusConflict}
	// ErrInternal is returned for everything unexpected.
	ErrInternal = &Error{Code: "internal_error", Detail: "An internal error occurred", Status: http.StatusInternalServerError}
)

// Validation returns a validation error describing msg.
func Validation(format string, args ...any) *Error {
	return ErrValidation.WithDetail(fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error for the named resource.
func NotFound(format string, args ...any) *Error {
	return ErrNotFound.WithDetail(fmt.Sprintf(format, args...))
}

// From returns the *Error wrapped in err, or ErrInternal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}

// Write renders err as a JSON body with its status code.
func Write(w http.ResponseWriter, err error) {
	e := From(err)
	if e.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}
