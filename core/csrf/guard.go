package csrf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/pagecraft/authkit/core/cookie"
	"github.com/pagecraft/authkit/core/handler"
)

// tokenBytes is the entropy of a generated token (256 bits).
const tokenBytes = 32

// Guard mitigates cross-site request forgery on state-changing operations
// using the double-submit pattern: a random token is stored in a
// script-readable cookie and must be echoed back by the client on every
// state-changing submission. Validation is stateless from the backend API's
// point of view.
type Guard struct {
	cookies *cookie.Manager
	cfg     Config
}

// Config holds anti-forgery guard configuration.
type Config struct {
	// CookieName must match the session store's CSRFCookieName so logout
	// clears the token with the session.
	CookieName string `env:"CSRF_COOKIE_NAME" envDefault:"pc_csrf"`
	// TTL is the token cookie lifetime, normally equal to the session TTL.
	TTL time.Duration `env:"CSRF_TTL" envDefault:"168h"`
}

// Option configures a Guard.
type Option func(*Guard)

// WithConfig replaces the default guard configuration.
func WithConfig(cfg Config) Option {
	return func(g *Guard) {
		g.cfg = cfg
	}
}

// New creates an anti-forgery guard on top of the cookie manager.
// A nil cookie manager is a programming error and panics.
func New(cookies *cookie.Manager, opts ...Option) *Guard {
	if cookies == nil {
		panic("csrf guard: cookie manager is required")
	}

	g := &Guard{
		cookies: cookies,
		cfg: Config{
			CookieName: "pc_csrf",
			TTL:        7 * 24 * time.Hour,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Token returns the live anti-forgery token, generating and persisting a new
// one if none exists yet. The token cookie is script-readable so rendered
// forms and page scripts can embed it in submissions; SameSite=Strict keeps
// it off cross-site requests.
func (g *Guard) Token(ctx handler.Context) (string, error) {
	if ctx == nil || ctx.Request() == nil || ctx.ResponseWriter() == nil {
		panic("csrf guard: used outside of a request/response cycle")
	}

	if existing, err := g.cookies.Get(ctx.Request(), g.cfg.CookieName); err == nil && existing != "" {
		return existing, nil
	}

	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	if err := g.cookies.Set(ctx.ResponseWriter(), g.cfg.CookieName, token,
		cookie.WithHTTPOnly(false),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithMaxAge(int(g.cfg.TTL.Seconds())),
	); err != nil {
		return "", err
	}

	// Requests issuing and validating a token within one cycle see the fresh
	// value even though the inbound request has no cookie yet.
	ctx.SetValue(tokenKey{}, token)

	return token, nil
}

// Validate reports whether the submitted token matches the stored one.
// It fails when either side is absent or lengths differ, and compares the
// full length in constant time: both values are hashed before comparison so
// the position of the first differing byte leaks nothing.
func (g *Guard) Validate(ctx handler.Context, submitted string) bool {
	if ctx == nil || ctx.Request() == nil {
		return false
	}
	if submitted == "" {
		return false
	}

	stored, ok := ctx.Value(tokenKey{}).(string)
	if !ok {
		var err error
		stored, err = g.cookies.Get(ctx.Request(), g.cfg.CookieName)
		if err != nil {
			return false
		}
	}
	if stored == "" || len(stored) != len(submitted) {
		return false
	}

	a := sha256.Sum256([]byte(stored))
	b := sha256.Sum256([]byte(submitted))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// tokenKey carries a token issued during the current request cycle.
type tokenKey struct{}
