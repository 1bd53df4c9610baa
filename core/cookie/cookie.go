package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
)

// MaxCookieSize is the maximum serialized size accepted for a single cookie (4KB).
const MaxCookieSize = 4096

// minSecretLength is the minimum secret length, required for AES-256 keys.
const minSecretLength = 32

// Manager handles HTTP cookie operations with HMAC signing and AES-GCM
// sealing. Multiple secrets are supported for key rotation: the first secret
// signs and seals, all secrets are tried on verification.
type Manager struct {
	secrets  []string
	defaults Options
}

// New creates a cookie manager. At least one secret of 32+ characters is
// required; empty secrets are dropped.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		secrets:  secrets,
		defaults: applyOptions(defaults, opts),
	}, nil
}

// Set stores a plain cookie value.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	if len(cookie.String()) > MaxCookieSize {
		return ErrCookieTooLarge{Name: name, Size: len(cookie.String()), Max: MaxCookieSize}
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get retrieves a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete removes a cookie by expiring it on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}

// SetSigned stores a tamper-evident cookie value signed with HMAC-SHA256.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned retrieves and verifies a signed cookie value.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

// SetSealed stores a cookie value encrypted and authenticated with AES-256-GCM.
// Sealed cookies are both confidential and tamper-evident, suitable for values
// the client must hold but never read.
func (m *Manager) SetSealed(w http.ResponseWriter, name, value string, opts ...Option) error {
	sealed, err := m.seal(value)
	if err != nil {
		return err
	}
	return m.Set(w, name, sealed, opts...)
}

// GetSealed retrieves and decrypts a sealed cookie value.
func (m *Manager) GetSealed(r *http.Request, name string) (string, error) {
	sealed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.open(sealed)
}
