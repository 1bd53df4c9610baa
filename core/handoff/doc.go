// Package handoff moves an authenticated control-plane user to a session on
// a tenant origin without ever transmitting the control-plane credential
// across origins.
//
// The Switcher (control-plane side) mints a short-lived, single-use grant
// scoped to one tenant and builds the destination URL
//
//	{scheme}://{tenant}.{root-domain}/{locale}/admin/login?token={grant}
//
// This redirect is the only place a credential-bearing value ever appears in
// a URL, and it carries the grant, never a session credential. The Consumer
// (tenant side) exchanges the grant for a tenant-scoped credential, writes
// its own origin's session record, and redirects internally so the grant is
// not bookmarked or resubmitted.
//
// Concurrent switch requests for the same user and tenant are coalesced:
// a double-click mints exactly one grant.
package handoff
