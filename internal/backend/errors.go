package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes. Use errors.Is to test an error returned by Client.
var (
	ErrTransport    = errors.New("backend unreachable")
	ErrUnauthorized = errors.New("not authenticated")
	ErrValidation   = errors.New("request rejected")
	ErrUnexpected   = errors.New("unexpected backend response")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string // "message" field of the body, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Is maps the status code onto the failure classes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrValidation:
		return e.Status >= 400 && e.Status < 500 && e.Status != http.StatusUnauthorized
	case ErrUnexpected:
		return e.Status >= 500 || e.Status < 400
	}
	return false
}

// Message turns err into a line suitable for an inline page error. The
// backend's own message wins for validation failures; otherwise fallback is
// used with a short reason.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired, please sign in again."
	case errors.As(err, &apiErr) && errors.Is(err, ErrValidation) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrTransport):
		return fallback + ": the server could not be reached"
	default:
		return fallback
	}
}
