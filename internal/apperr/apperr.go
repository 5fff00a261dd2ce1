// Package apperr defines the error taxonomy shared by the workflow packages
// and the HTTP layer. Each kind carries a human-readable message and maps to
// exactly one status code; handlers match with errors.As and never expose
// internals beyond the message.
package apperr

import "net/http"

// ValidationError covers missing or malformed input (400).
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// AuthenticationError covers missing or invalid credentials (401).
type AuthenticationError struct {
	Message string
}

func (e AuthenticationError) Error() string { return e.Message }

// AuthorizationError covers authenticated-but-forbidden actions (403).
type AuthorizationError struct {
	Message string
}

func (e AuthorizationError) Error() string { return e.Message }

// NotFoundError covers absent referenced entities (404).
type NotFoundError struct {
	Message string
}

func (e NotFoundError) Error() string { return e.Message }

// ConflictError covers duplicate reviews/favorites and the like (409).
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string { return e.Message }

// UpstreamError covers persistence failures surfaced to the caller (500).
type UpstreamError struct {
	Message string
}

func (e UpstreamError) Error() string { return e.Message }

func Validation(message string) error      { return ValidationError{Message: message} }
func Unauthenticated(message string) error { return AuthenticationError{Message: message} }
func Forbidden(message string) error       { return AuthorizationError{Message: message} }
func NotFound(message string) error        { return NotFoundError{Message: message} }
func Conflict(message string) error        { return ConflictError{Message: message} }
func Upstream(message string) error        { return UpstreamError{Message: message} }

// StatusCode maps an error to its HTTP status. Unknown errors are treated as
// upstream failures.
func StatusCode(err error) int {
	switch err.(type) {
	case ValidationError:
		return http.StatusBadRequest
	case AuthenticationError:
		return http.StatusUnauthorized
	case AuthorizationError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
