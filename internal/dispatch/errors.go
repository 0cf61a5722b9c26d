package dispatch

import (
	"errors"
	"fmt"

	"github.com/kartoza/qmc-desk/internal/bridge"
)

var (
	// ErrBridgeUnavailable means the local bridge never became ready in time.
	ErrBridgeUnavailable = bridge.ErrUnavailable

	// ErrAPINotConfigured means the remote transport is required but no base URL was given.
	ErrAPINotConfigured = errors.New("API base URL is not configured")

	// ErrAPIRequestFailed is matched by every *APIError.
	ErrAPIRequestFailed = errors.New("API request failed")

	// ErrNetwork is matched by every *NetworkError.
	ErrNetwork = errors.New("network error")

	// ErrBusy rejects a submission while another one is in flight.
	ErrBusy = errors.New("a simulation request is already in flight")
)

// APIError is a non-2xx answer from the remote API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %d: %s", e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrAPIRequestFailed) hold
func (e *APIError) Is(target error) bool {
	return target == ErrAPIRequestFailed
}

// NetworkError is a transport-level failure reaching the remote API
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNetwork) hold
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// FieldError reports a form value that is not a number
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s must be a number, got %q", e.Field, e.Value)
}
