// Package middleware wires the session components into request processing:
// anti-forgery enforcement on state-changing requests, a session-required
// guard for protected routes, and the per-request proactive rotation trigger.
//
// All middlewares follow the same shape: a plain constructor with defaults
// and a WithConfig variant accepting a config struct with Skip and
// ErrorHandler hooks.
package middleware
