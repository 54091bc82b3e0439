// Package apierrors contains all common errors used by the payments API client.
package apierrors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

var ErrSessionNotFound = fmt.Errorf("cannot find a stored session")
var ErrMissingRefreshToken = fmt.Errorf("the refresh token cannot be found")
var ErrReauthenticate = fmt.Errorf("the session is no longer valid, please log in again")
var ErrUnauthorized = fmt.Errorf("the request is not authorized")
var ErrNotFound = fmt.Errorf("the requested resource cannot be found")
var ErrMissingDBResource = fmt.Errorf("the requested resource cannot be found in the DB")
var ErrValidation = fmt.Errorf("the provided data is not valid")
var ErrServerUnreachable = fmt.Errorf("cannot reach the server")

// APIError is returned when the remote API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Message is the human readable message sent by the server, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// ValidationError reports locally rejected input. It is never sent to the server.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DisplayMessage converts any error into the most specific string that can be shown to the
// operator, falling back to the provided message.
func DisplayMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	if errors.Is(err, ErrReauthenticate) || errors.Is(err, ErrMissingRefreshToken) {
		return ErrReauthenticate.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if IsTransport(err) {
		return ErrServerUnreachable.Error()
	}
	return fallback
}

// IsTransport reports whether the error happened before any response was received.
func IsTransport(err error) bool {
	if errors.Is(err, ErrServerUnreachable) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
