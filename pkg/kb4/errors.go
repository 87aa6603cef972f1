package kb4

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the reporting API that carries
// no more specific meaning.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// AuthorizationError represents an HTTP 401: the API key is missing, invalid,
// or expired. It is never retried.
type AuthorizationError struct {
	Body string
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return "unauthorized: check your API key and try again"
}

// RateLimitError represents a single HTTP 429 response. RetryAfter is the
// server-provided wait in seconds.
type RateLimitError struct {
	RetryAfter int
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
}

// RateLimitExhaustedError is returned when one logical request receives more
// consecutive 429 responses than the retry budget allows.
type RateLimitExhaustedError struct {
	Attempts int
}

// Error implements the error interface.
func (e *RateLimitExhaustedError) Error() string {
	return fmt.Sprintf("too many consecutive rate-limited responses (%d); try again later", e.Attempts)
}

// Static errors for argument validation. These are detected before any
// network call is made.
var (
	ErrInvalidStatus          = errors.New(`status must be "active" or "archived"`)
	ErrConflictingFilters     = errors.New("campaign and security test filters are mutually exclusive")
	ErrSecurityTestIDRequired = errors.New("a security test ID is required")
	ErrAPIKeyRequired         = errors.New("an API key is required")
	ErrAPIEndpointRequired    = errors.New("an API endpoint or region is required")
	ErrUnknownRegion          = errors.New("unknown region")
	ErrConfigRequired         = errors.New("config is required")
	ErrNoTokenManager         = errors.New("no token manager configured")
	ErrEmptyResponse          = errors.New("empty response for singleton lookup")
	ErrTokenPromptUnavailable = errors.New("no API key set and no prompt available")
)

// IsAuthorizationError checks whether the error is an HTTP 401.
func IsAuthorizationError(err error) bool {
	authErr := &AuthorizationError{}

	return errors.As(err, &authErr)
}

// IsRateLimited checks whether the error is a single 429 response.
func IsRateLimited(err error) bool {
	rlErr := &RateLimitError{}

	return errors.As(err, &rlErr)
}

// IsRateLimitExhausted checks whether the error is a spent 429 retry budget.
func IsRateLimitExhausted(err error) bool {
	rlErr := &RateLimitExhaustedError{}

	return errors.As(err, &rlErr)
}

// IsNotFound checks whether the error is an HTTP 404.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}
