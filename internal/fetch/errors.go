package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the remote resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the server refused the request for rate.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNetworkError indicates the request never got a response.
	ErrNetworkError = errors.New("network error")

	// ErrTooLarge indicates a response body over the client's limit.
	ErrTooLarge = errors.New("response too large")
)

// HTTPError is a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Is matches the sentinel for the status code.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTooLarge returns true if the error reports an oversized response.
func IsTooLarge(err error) bool {
	return errors.Is(err, ErrTooLarge)
}
