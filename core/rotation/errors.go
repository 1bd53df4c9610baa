package rotation

import "errors"

var (
	// ErrInvalidInterval is returned when MinInterval is not shorter than
	// VirtualExpiry, or either duration is non-positive.
	ErrInvalidInterval = errors.New("rotation min interval must be positive and shorter than virtual expiry")

	// ErrThrottled is returned when a rotation attempt falls inside the
	// minimum spacing since the previous attempt.
	ErrThrottled = errors.New("rotation attempted too soon after previous attempt")

	// ErrRefreshFailed is returned when the backend refresh call fails.
	// The existing session record is left untouched.
	ErrRefreshFailed = errors.New("credential refresh failed")
)
