package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/pagecraft/authkit/core/csrf"
	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/logger"
	"github.com/pagecraft/authkit/pkg/clientip"
)

// CSRFConfig configures the anti-forgery middleware.
type CSRFConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(ctx C) bool
	// Guard issues and validates double-submit tokens (required).
	Guard *csrf.Guard
	// HeaderName is checked first for the submitted token (default: X-CSRF-Token).
	HeaderName string
	// FieldName is the form field fallback (default: _csrf).
	FieldName string
	// Logger for structured logging (default: discards output).
	Logger *slog.Logger
	// ErrorHandler renders the rejection (default: plain 403).
	ErrorHandler func(ctx C, err error) handler.Response
}

// CSRF creates middleware that enforces double-submit anti-forgery tokens on
// state-changing requests. Safe methods pass through but still get a token
// issued, so the first rendered form always has one to embed. A mismatch
// rejects the request before the handler runs; it is never retried, the user
// reloads the form for a fresh token.
func CSRF[C handler.Context](guard *csrf.Guard) handler.Middleware[C] {
	return CSRFWithConfig(CSRFConfig[C]{Guard: guard})
}

// CSRFWithConfig creates an anti-forgery middleware with custom configuration.
func CSRFWithConfig[C handler.Context](cfg CSRFConfig[C]) handler.Middleware[C] {
	if cfg.Guard == nil {
		panic("csrf middleware: guard is required")
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.FieldName == "" {
		cfg.FieldName = "_csrf"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return nil
			}
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			if isSafeMethod(ctx.Request().Method) {
				if _, err := cfg.Guard.Token(ctx); err != nil {
					cfg.Logger.ErrorContext(ctx, "csrf middleware: failed to issue token",
						logger.Error(err))
				}
				return next(ctx)
			}

			submitted := ctx.Request().Header.Get(cfg.HeaderName)
			if submitted == "" {
				submitted = ctx.Request().PostFormValue(cfg.FieldName)
			}

			if !cfg.Guard.Validate(ctx, submitted) {
				cfg.Logger.WarnContext(ctx, "csrf middleware: rejected request",
					logger.Method(ctx.Request().Method), logger.Path(ctx.Request().URL.Path),
					logger.ClientIP(clientip.GetIP(ctx.Request())))
				return cfg.ErrorHandler(ctx, csrf.ErrTokenMismatch)
			}

			return next(ctx)
		}
	}
}

// isSafeMethod reports whether the method is defined as safe (no state
// change) and therefore exempt from anti-forgery validation.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
