package handoff

import "errors"

var (
	// ErrMissingRootDomain indicates the handoff was configured without the
	// shared root domain.
	ErrMissingRootDomain = errors.New("handoff root domain is required")

	// ErrInvalidTenant indicates the tenant identifier is not a valid
	// subdomain label.
	ErrInvalidTenant = errors.New("invalid tenant identifier")

	// ErrGrantIssue indicates the backend refused to mint a handoff grant.
	// The user stays on the control-plane origin.
	ErrGrantIssue = errors.New("failed to issue handoff grant")

	// ErrMissingGrant indicates the tenant login entry point was reached
	// without a grant parameter.
	ErrMissingGrant = errors.New("handoff grant missing from request")

	// ErrGrantExchange indicates the grant could not be exchanged (expired,
	// already consumed, or tenant not ready). No session is established.
	ErrGrantExchange = errors.New("failed to exchange handoff grant")
)
