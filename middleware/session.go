package middleware

import (
	"net/http"

	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/session"
)

// RequireSessionConfig configures the session-required middleware.
type RequireSessionConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(ctx C) bool
	// Sessions reads the session record (required).
	Sessions *session.Store
	// RedirectTo, when set, redirects unauthenticated requests there instead
	// of responding 401. Typically the login page.
	RedirectTo string
	// ErrorHandler renders the rejection when RedirectTo is empty
	// (default: plain 401).
	ErrorHandler func(ctx C, err error) handler.Response
}

// RequireSession creates middleware that rejects requests without a stored
// credential. Being unauthenticated is not exceptional: the default response
// is a 401 (or a redirect to login via RequireSessionWithConfig).
func RequireSession[C handler.Context](sessions *session.Store) handler.Middleware[C] {
	return RequireSessionWithConfig(RequireSessionConfig[C]{Sessions: sessions})
}

// RequireSessionWithConfig creates a session-required middleware with custom
// configuration.
func RequireSessionWithConfig[C handler.Context](cfg RequireSessionConfig[C]) handler.Middleware[C] {
	if cfg.Sessions == nil {
		panic("session middleware: session store is required")
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				if cfg.RedirectTo != "" {
					http.Redirect(w, r, cfg.RedirectTo, http.StatusSeeOther)
					return nil
				}
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return nil
			}
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			if _, err := cfg.Sessions.Get(ctx); err != nil {
				return cfg.ErrorHandler(ctx, session.ErrNoSession)
			}

			return next(ctx)
		}
	}
}
