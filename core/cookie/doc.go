// Package cookie provides HTTP cookie management with HMAC signing and
// AES-256-GCM sealing, supporting multi-secret key rotation.
//
// Three storage modes are available:
//
//   - Set/Get: plain values, readable by the client (anti-forgery tokens)
//   - SetSigned/GetSigned: tamper-evident values the client may read
//   - SetSealed/GetSealed: encrypted values the client holds but cannot read
//     (session records)
//
// The manager enforces secure defaults (Path=/, HttpOnly, SameSite=Lax) that
// individual writes override through functional options.
package cookie
