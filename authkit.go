package authkit

import (
	"errors"
	"io"
	"log/slog"

	"github.com/pagecraft/authkit/core/backend"
	"github.com/pagecraft/authkit/core/config"
	"github.com/pagecraft/authkit/core/cookie"
	"github.com/pagecraft/authkit/core/csrf"
	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/logger"
	"github.com/pagecraft/authkit/core/rotation"
	"github.com/pagecraft/authkit/core/session"
)

// Auth bundles the session components of one application (control-plane or
// tenant) and implements the login, logout, and session-probe flows against
// the backend API.
type Auth struct {
	Sessions *session.Store
	Guard    *csrf.Guard
	Rotator  *rotation.Manager
	Client   *backend.Client

	log *slog.Logger
}

// Option configures an Auth service.
type Option func(*Auth)

// WithLogger sets the logger for auth flow outcomes.
func WithLogger(log *slog.Logger) Option {
	return func(a *Auth) {
		if log != nil {
			a.log = log
		}
	}
}

// New assembles an Auth service from pre-built components. All components are
// required; missing ones are a programming error and panic.
func New(sessions *session.Store, guard *csrf.Guard, rotator *rotation.Manager, client *backend.Client, opts ...Option) *Auth {
	if sessions == nil || guard == nil || rotator == nil || client == nil {
		panic("authkit: all components are required")
	}

	a := &Auth{
		Sessions: sessions,
		Guard:    guard,
		Rotator:  rotator,
		Client:   client,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromEnv assembles an Auth service entirely from environment
// configuration: cookie secrets, session cookie names and TTL, backend API
// address, and rotation timings.
func NewFromEnv(opts ...Option) (*Auth, error) {
	var cookieCfg cookie.Config
	if err := config.Load(&cookieCfg); err != nil {
		return nil, err
	}
	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return nil, err
	}

	var sessionCfg session.Config
	if err := config.Load(&sessionCfg); err != nil {
		return nil, err
	}
	sessions := session.New(cookies, session.WithConfig(sessionCfg))

	var csrfCfg csrf.Config
	if err := config.Load(&csrfCfg); err != nil {
		return nil, err
	}
	guard := csrf.New(cookies, csrf.WithConfig(csrfCfg))

	var backendCfg backend.Config
	if err := config.Load(&backendCfg); err != nil {
		return nil, err
	}
	client, err := backend.New(backendCfg, sessions)
	if err != nil {
		return nil, err
	}

	var rotationCfg rotation.Config
	if err := config.Load(&rotationCfg); err != nil {
		return nil, err
	}
	rotator, err := rotation.New(sessions, client, rotation.WithConfig(rotationCfg))
	if err != nil {
		return nil, err
	}

	return New(sessions, guard, rotator, client, opts...), nil
}

// Login authenticates against the backend and establishes the session record
// on success.
func (a *Auth) Login(ctx handler.Context, email, password string) (backend.User, error) {
	cred, user, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return backend.User{}, err
	}

	if err := a.Sessions.Set(ctx, cred); err != nil {
		return backend.User{}, err
	}

	a.log.InfoContext(ctx, "user logged in", logger.Component("authkit"))
	return user, nil
}

// Logout invalidates the credential server-side and clears the session
// record. The record is cleared regardless of the backend call's outcome;
// a backend rejection of an already-dead credential counts as success.
func (a *Auth) Logout(ctx handler.Context) error {
	err := a.Client.Logout(ctx)
	a.Sessions.Clear(ctx)

	if err != nil && !errors.Is(err, backend.ErrUnauthenticated) {
		a.log.WarnContext(ctx, "backend logout failed", logger.Error(err))
		return err
	}
	return nil
}

// CurrentUser probes session validity against the backend. A rejected
// credential surfaces as backend.ErrUnauthenticated; whether to clear the
// session and prompt re-login is the caller's decision.
func (a *Auth) CurrentUser(ctx handler.Context) (backend.User, error) {
	return a.Client.Me(ctx)
}
