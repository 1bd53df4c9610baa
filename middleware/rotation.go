package middleware

import (
	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/rotation"
)

// RotationConfig configures the proactive rotation middleware.
type RotationConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific
	// requests, e.g. static assets and health checks.
	Skip func(ctx C) bool
	// Manager performs the rotation (required).
	Manager *rotation.Manager
}

// Rotation creates middleware that triggers proactive credential rotation on
// qualifying requests. Rotation runs synchronously within the request before
// the handler, so the handler's backend calls already carry the fresh
// credential; failures are silent and the old credential stays in use.
func Rotation[C handler.Context](manager *rotation.Manager) handler.Middleware[C] {
	return RotationWithConfig(RotationConfig[C]{Manager: manager})
}

// RotationWithConfig creates a rotation middleware with custom configuration.
func RotationWithConfig[C handler.Context](cfg RotationConfig[C]) handler.Middleware[C] {
	if cfg.Manager == nil {
		panic("rotation middleware: manager is required")
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			cfg.Manager.RotateIfNeeded(ctx)

			return next(ctx)
		}
	}
}
