package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
	// ErrUnsuccessful indicates TMDB answered 2xx with success=false
	ErrUnsuccessful = errors.New("tmdb reported failure")
)

// TMDB status_code values
const (
	// CodeInvalidAPIKey is returned when the API key is missing or wrong
	CodeInvalidAPIKey = 7
	// CodeInvalidCredentials is returned for a bad username or password
	CodeInvalidCredentials = 30
)

// APIError represents a TMDB API error
type APIError struct {
	StatusCode int    // HTTP status
	Code       int    // TMDB status_code
	Message    string // TMDB status_message
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("tmdb API error: status %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsUnauthorized reports whether err is an *APIError caused by bad
// credentials or API key.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

// IsInvalidCredentials reports whether err is TMDB rejecting a username and
// password, as opposed to rejecting the API key
func IsInvalidCredentials(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeInvalidCredentials
}
