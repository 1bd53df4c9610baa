package handoff

import "regexp"

// Config holds the fixed contract between the control-plane and tenant
// applications: how the handoff URL is shaped and which query parameter
// carries the grant.
type Config struct {
	// Scheme for destination URLs; https everywhere but local development.
	Scheme string `env:"HANDOFF_SCHEME" envDefault:"https"`
	// RootDomain is the shared root under which tenant subdomains live,
	// e.g. "pagecraft.app" yields acme.pagecraft.app.
	RootDomain string `env:"HANDOFF_ROOT_DOMAIN,required"`
	// LoginPath is the destination origin's login entry path, mounted under
	// the locale segment.
	LoginPath string `env:"HANDOFF_LOGIN_PATH" envDefault:"/admin/login"`
	// GrantParam is the query parameter carrying the grant.
	GrantParam string `env:"HANDOFF_GRANT_PARAM" envDefault:"token"`
	// Locale is the default locale segment for destination URLs.
	Locale string `env:"HANDOFF_LOCALE" envDefault:"en"`
	// PostLoginPath is where the tenant login entry point redirects after
	// consuming a grant, stripping it from the visible URL.
	PostLoginPath string `env:"HANDOFF_POST_LOGIN_PATH" envDefault:"/admin"`
}

// tenantPattern constrains tenant identifiers to valid DNS labels, since the
// identifier becomes a subdomain of the root domain.
var tenantPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
