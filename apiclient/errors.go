package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the API answered 401.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrSessionInvalid is returned when the session guard refused the request.
	ErrSessionInvalid = errors.New("api: session invalid")
	// ErrRenewFailed is returned when the renew endpoint did not issue a token.
	ErrRenewFailed = errors.New("api: session renewal failed")
)

// StatusError reports a non-2xx answer other than 401.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}
