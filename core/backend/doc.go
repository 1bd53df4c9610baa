// Package backend is the authenticated HTTP client for the Pagecraft backend
// API and the only path for outbound calls from the admin applications.
//
// On every call the client reads the current credential from the session
// store and attaches it as a bearer token; absent a credential the call goes
// out unauthenticated. Authorization failures surface as ErrUnauthenticated
// without clearing the session, transient transport failures as
// ErrUnavailable without retries, and other non-2xx responses as *APIError.
package backend
