// Package logger provides slog attribute helpers with consistent keys across
// the module. Helpers return an empty Attr for nil/zero input, which slog
// drops silently, so call sites need no guards.
package logger
