package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrBackendURLNotSet = &ConfigError{Message: "Backend URL not set"}
	ErrRPCNotConfigured = &ConfigError{Message: "Blockchain RPC not configured"}
	ErrStorageNotSet    = &ConfigError{Message: "Upload storage not configured"}
	ErrAuthRequired     = &AuthRequiredError{}
)

// ConfigError is a required environment value that is missing. Always 500.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// ValidationError is a malformed or missing request field. Always 400.
type ValidationError struct {
	Missing []string
	Invalid []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Missing) > 0 {
		return "Missing required fields: " + strings.Join(e.Missing, ", ")
	}
	return "Invalid format: " + strings.Join(e.Invalid, ", ")
}

// AuthRequiredError is a missing bearer token on an operation that mandates one.
type AuthRequiredError struct{}

func (e *AuthRequiredError) Error() string { return "Authentication required" }

// UpstreamError is a failure reported by, or while reaching, the backend or the chain.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }

// NotFoundError is an entity that does not exist, e.g. a reverted address lookup.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Status maps an error to the HTTP status the handlers answer with.
func Status(err error) int {
	var (
		cfgErr      *ConfigError
		validErr    *ValidationError
		authErr     *AuthRequiredError
		upErr       *UpstreamError
		notFoundErr *NotFoundError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &validErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &upErr):
		if upErr.Status > 0 {
			return upErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe text for err. Unknown errors never leak their text.
func Message(err error) string {
	var (
		cfgErr      *ConfigError
		validErr    *ValidationError
		authErr     *AuthRequiredError
		upErr       *UpstreamError
		notFoundErr *NotFoundError
	)
	switch {
	case errors.As(err, &cfgErr):
		return cfgErr.Error()
	case errors.As(err, &validErr):
		return validErr.Error()
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case errors.As(err, &upErr):
		return upErr.Error()
	default:
		return "Internal Server Error"
	}
}
