// Package csrf implements double-submit anti-forgery protection for
// state-changing requests.
//
// A cryptographically random token lives in a script-readable cookie and must
// be echoed back in a header or form field on every state-changing
// submission. Validation is a constant-time, full-length comparison; a
// mismatch rejects the request before it reaches any mutation logic, and the
// user must reload the form to obtain a fresh token.
package csrf
