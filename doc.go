// Package authkit is the session and cross-application authentication
// handoff library of the Pagecraft multi-tenant website-builder platform,
// shared by the control-plane ("landlord") admin application and the
// per-tenant admin applications.
//
// The building blocks live under core/:
//
//   - core/session: the session store — the backend credential and its
//     issuance timestamp, sealed into one HttpOnly cookie per origin
//   - core/csrf: double-submit anti-forgery tokens for state-changing requests
//   - core/rotation: proactive credential rotation before virtual expiry
//   - core/backend: the authenticated HTTP client for the backend API
//   - core/handoff: the control-plane to tenant-origin session handoff
//
// The root package ties them into the login, logout, and session-probe flows;
// the middleware package wires the guards into request processing.
package authkit
