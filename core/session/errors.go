package session

import "errors"

var (
	// ErrNoSession is returned when no session record exists for the request,
	// it has been cleared, or it cannot be decoded.
	ErrNoSession = errors.New("no session")

	// ErrEmptyCredential is returned when storing an empty credential.
	ErrEmptyCredential = errors.New("credential must not be empty")

	// ErrStoreFailed is returned when writing the session record fails.
	ErrStoreFailed = errors.New("failed to store session record")
)
