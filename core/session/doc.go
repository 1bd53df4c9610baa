// Package session implements the session store: the single chokepoint for
// reading and writing the authenticated-session record of a request cycle.
//
// The record (backend credential + issuance timestamp) is stored as one
// AES-GCM-sealed, HttpOnly, SameSite=Strict cookie. Sealing keeps the
// credential out of reach of page scripts; encoding both fields in one value
// makes the write of credential and timestamp atomic by construction.
//
// Each origin owns exactly one record: the control-plane application and
// every tenant application run on different origins and never share cookies.
//
// Using the store outside of a live request/response cycle panics: the store
// is bound to the cycle by design and ambient use is a programming error.
package session
