package csrf

import "errors"

var (
	// ErrTokenGeneration is returned when random token generation fails.
	ErrTokenGeneration = errors.New("failed to generate anti-forgery token")

	// ErrTokenMismatch signals a rejected state-changing request: the
	// submitted token is absent or does not match the stored one.
	ErrTokenMismatch = errors.New("anti-forgery token mismatch")
)
