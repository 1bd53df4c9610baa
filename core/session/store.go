package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/pagecraft/authkit/core/cookie"
	"github.com/pagecraft/authkit/core/handler"
)

// Store is the only component permitted to read or write session storage.
// The credential and its issuance timestamp live together in one sealed,
// HttpOnly, SameSite=Strict cookie; the anti-forgery token lives in a
// separate script-readable cookie that Clear removes alongside the session.
type Store struct {
	cookies *cookie.Manager
	cfg     Config
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithConfig replaces the default store configuration.
func WithConfig(cfg Config) Option {
	return func(s *Store) {
		s.cfg = cfg
	}
}

// WithTTL sets the session cookie lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.cfg.TTL = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a session store on top of the cookie manager.
// A nil cookie manager is a programming error and panics.
func New(cookies *cookie.Manager, opts ...Option) *Store {
	if cookies == nil {
		panic("session store: cookie manager is required")
	}

	s := &Store{
		cookies: cookies,
		cfg:     defaultConfig(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set writes the credential and stamps IssuedAt with the current time.
// Both values are written atomically as one sealed cookie.
func (s *Store) Set(ctx handler.Context, credential string) error {
	s.requireRequestCycle(ctx)

	if credential == "" {
		return ErrEmptyCredential
	}

	rec := Record{Credential: credential, IssuedAt: s.now()}

	value, err := rec.encode()
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}

	if err := s.cookies.SetSealed(ctx.ResponseWriter(), s.cfg.CookieName, value,
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithMaxAge(int(s.cfg.TTL.Seconds())),
	); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}

	// Keep the in-flight request coherent: a Get after Set within the same
	// cycle must observe the new record even though the inbound request still
	// carries the old cookie.
	ctx.SetValue(recordKey{}, rec)

	return nil
}

// Get returns the currently stored credential, or ErrNoSession when absent,
// cleared, or undecodable.
func (s *Store) Get(ctx handler.Context) (string, error) {
	rec, err := s.record(ctx)
	if err != nil {
		return "", err
	}
	return rec.Credential, nil
}

// IssuedAt returns when the held credential was obtained. A zero time with a
// nil error means the record carries a credential without a timestamp and
// should be treated as stale.
func (s *Store) IssuedAt(ctx handler.Context) (time.Time, error) {
	rec, err := s.record(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return rec.IssuedAt, nil
}

// Clear removes the session record and the anti-forgery token together.
func (s *Store) Clear(ctx handler.Context) {
	s.requireRequestCycle(ctx)

	s.cookies.Delete(ctx.ResponseWriter(), s.cfg.CookieName)
	s.cookies.Delete(ctx.ResponseWriter(), s.cfg.CSRFCookieName)
	ctx.SetValue(recordKey{}, Record{})
}

// CSRFCookieName reports the anti-forgery cookie name this store clears,
// so the guard can be configured consistently.
func (s *Store) CSRFCookieName() string {
	return s.cfg.CSRFCookieName
}

// recordKey carries the request-scoped record written during this cycle.
type recordKey struct{}

func (s *Store) record(ctx handler.Context) (Record, error) {
	s.requireRequestCycle(ctx)

	if rec, ok := ctx.Value(recordKey{}).(Record); ok {
		if rec.Credential == "" {
			return Record{}, ErrNoSession
		}
		return rec, nil
	}

	value, err := s.cookies.GetSealed(ctx.Request(), s.cfg.CookieName)
	if err != nil {
		return Record{}, ErrNoSession
	}

	rec, err := decodeRecord(value)
	if err != nil || rec.Credential == "" {
		return Record{}, ErrNoSession
	}
	return rec, nil
}

// requireRequestCycle panics when the store is used outside a live
// request/response cycle. This is a programming error, not a runtime
// condition to recover from.
func (s *Store) requireRequestCycle(ctx handler.Context) {
	if ctx == nil || ctx.Request() == nil || ctx.ResponseWriter() == nil {
		panic("session store: used outside of a request/response cycle")
	}
}
