package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Provider and service errors
	ErrProvider           = fmt.Errorf("provider request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ProviderError is returned by every provider operation that fails in transport, status or decoding.
//
// It matches [ErrProvider] with [errors.Is] and unwraps to the underlying cause.
type ProviderError struct {
	Method string // HTTP method of the failed call
	Path   string // Provider path of the failed call, e.g. /me/top/tracks
	Err    error  // Underlying cause
}

// NewProviderError builds a [ProviderError] for the given call.
func NewProviderError(method, path string, err error) *ProviderError {
	return &ProviderError{Method: method, Path: path, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrProvider].
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// IsProviderError reports whether err carries a [ProviderError] and returns it.
func IsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
