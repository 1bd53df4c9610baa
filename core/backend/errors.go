package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBaseURL indicates the client was configured without a backend URL.
	ErrMissingBaseURL = errors.New("backend base URL is required")

	// ErrUnauthenticated signals the backend rejected the attached credential
	// (HTTP 401). The client surfaces it without touching the session store;
	// clearing the session is the calling flow's decision.
	ErrUnauthenticated = errors.New("backend rejected credential")

	// ErrUnavailable signals a transient transport failure (timeout, network
	// error). The call is never retried by the client; retry policy belongs
	// to callers.
	ErrUnavailable = errors.New("backend unavailable")
)

// APIError is a structured non-2xx backend response other than 401.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}
