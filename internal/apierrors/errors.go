// Package apierrors defines errors that are safe to show to API clients.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// APIError is a client-facing error with an HTTP status and a stable code.
type APIError struct {
	HTTPCode int
	Code     string
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// As returns the first APIError in err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func NewErrInvalidInput(msg string) *APIError {
	return &APIError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     "invalid_input",
		Message:  msg,
	}
}

func NewErrUsernameTaken(username string) *APIError {
	return &APIError{
		HTTPCode: http.StatusConflict,
		Code:     "username_taken",
		Message:  fmt.Sprintf("username %q is already taken", username),
	}
}

func NewErrWeakPassword(minLength int) *APIError {
	return &APIError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     "weak_password",
		Message:  fmt.Sprintf("password must be between %d and %d characters", minLength, MaxPasswordLength),
	}
}

// MaxPasswordLength bounds the work spent hashing a single password.
const MaxPasswordLength = 128

func NewErrInvalidCredentials() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     "invalid_credentials",
		Message:  "invalid username or password",
	}
}

func NewErrTooManyAttempts() *APIError {
	return &APIError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     "too_many_attempts",
		Message:  "too many failed login attempts, try again later",
	}
}

func NewErrRateLimited() *APIError {
	return &APIError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     "rate_limited",
		Message:  "too many requests, slow down",
	}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     "unauthorized",
		Message:  "missing authorization token",
	}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     "unauthorized",
		Message:  "invalid authorization token",
	}
}

func NewErrRecordNotFound(kind string, id uuid.UUID) *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Code:     "not_found",
		Message:  fmt.Sprintf("%s %s not found", kind, id),
	}
}

// NewErrMalformedID reports a path id that cannot name any record. It is
// indistinguishable from a missing record.
func NewErrMalformedID(kind, raw string) *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Code:     "not_found",
		Message:  fmt.Sprintf("%s %q not found", kind, raw),
	}
}

func NewErrRouteNotFound() *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Code:     "route_not_found",
		Message:  "route not found",
	}
}

func NewErrMethodNotAllowed() *APIError {
	return &APIError{
		HTTPCode: http.StatusMethodNotAllowed,
		Code:     "method_not_allowed",
		Message:  "method not allowed",
	}
}

func NewErrVersionConflict(kind string, id uuid.UUID) *APIError {
	return &APIError{
		HTTPCode: http.StatusConflict,
		Code:     "version_conflict",
		Message:  fmt.Sprintf("%s %s was modified concurrently, reload and retry", kind, id),
	}
}

func NewErrStorageUnavailable(err error) *APIError {
	return &APIError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     "storage_unavailable",
		Message:  "storage is temporarily unavailable",
		Err:      err,
	}
}

func NewErrInternalServerError(err error) *APIError {
	return &APIError{
		HTTPCode: http.StatusInternalServerError,
		Code:     "internal",
		Message:  "internal server error",
		Err:      err,
	}
}
