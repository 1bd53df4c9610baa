package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates no secret was provided for signing/sealing.
	ErrNoSecret = errors.New("no secret provided for cookie manager")

	// ErrSecretTooShort indicates a secret below the 32-character minimum
	// required for AES-256 keys.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")

	// ErrInvalidSignature indicates signature verification failed, suggesting
	// tampering or a fully rotated-out key.
	ErrInvalidSignature = errors.New("cookie signature verification failed")

	// ErrOpenFailed indicates a sealed cookie value could not be decrypted.
	ErrOpenFailed = errors.New("failed to open sealed cookie value")

	// ErrCookieNotFound indicates the requested cookie is absent from the request.
	ErrCookieNotFound = errors.New("cookie not found in request")

	// ErrInvalidFormat indicates the cookie value has an unexpected encoding.
	ErrInvalidFormat = errors.New("invalid cookie format")
)

// ErrCookieTooLarge indicates the serialized cookie exceeds MaxCookieSize.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
