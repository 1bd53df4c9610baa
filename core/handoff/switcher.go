package handoff

import (
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pagecraft/authkit/core/backend"
	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/logger"
)

// Switcher runs the control-plane side of the handoff: it mints a
// tenant-scoped grant against the backend and builds the one-time URL the
// browser is redirected to. The control-plane credential authorizes the mint
// but never leaves the control-plane origin; only the short-lived grant
// appears in the URL.
type Switcher struct {
	client *backend.Client
	cfg    Config
	log    *slog.Logger

	// group coalesces concurrent switch requests for the same user and
	// tenant, so a double-click mints one grant and races no redirects.
	group singleflight.Group
}

// SwitcherOption configures a Switcher.
type SwitcherOption func(*Switcher)

// WithSwitcherLogger sets the logger for switch outcomes.
func WithSwitcherLogger(log *slog.Logger) SwitcherOption {
	return func(s *Switcher) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSwitcher creates the control-plane side of the handoff protocol.
func NewSwitcher(client *backend.Client, cfg Config, opts ...SwitcherOption) (*Switcher, error) {
	if client == nil {
		panic("handoff switcher: backend client is required")
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	s := &Switcher{
		client: client,
		cfg:    cfg,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Switch mints a grant for the tenant and returns the destination URL to
// redirect the browser to. An empty locale falls back to the configured
// default. Failure surfaces to the caller and retains no partial state: the
// user stays on the control-plane origin.
func (s *Switcher) Switch(ctx handler.Context, userID uuid.UUID, tenant, locale string) (string, error) {
	if !tenantPattern.MatchString(tenant) {
		return "", ErrInvalidTenant
	}
	if locale == "" {
		locale = s.cfg.Locale
	}

	// The locale is part of the key: two in-flight switches for the same user
	// and tenant but different locales must each get their own URL.
	dest, err, _ := s.group.Do(userID.String()+"/"+tenant+"/"+locale, func() (any, error) {
		grant, err := s.client.IssueTenantGrant(ctx, tenant)
		if err != nil {
			s.log.WarnContext(ctx, "handoff grant issuance failed",
				logger.Tenant(tenant), logger.Error(err))
			return nil, errors.Join(ErrGrantIssue, err)
		}
		return s.destinationURL(tenant, locale, grant.Token), nil
	})
	if err != nil {
		return "", err
	}

	return dest.(string), nil
}

// destinationURL builds
// {scheme}://{tenant}.{root-domain}/{locale}{login-path}?{param}={grant}.
func (s *Switcher) destinationURL(tenant, locale, grant string) string {
	u := url.URL{
		Scheme: s.cfg.Scheme,
		Host:   tenant + "." + s.cfg.RootDomain,
		Path:   "/" + locale + s.cfg.LoginPath,
		RawQuery: url.Values{
			s.cfg.GrantParam: {grant},
		}.Encode(),
	}
	return u.String()
}

func validate(cfg *Config) error {
	if cfg.RootDomain == "" {
		return ErrMissingRootDomain
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/admin/login"
	} else if !strings.HasPrefix(cfg.LoginPath, "/") {
		cfg.LoginPath = "/" + cfg.LoginPath
	}
	if cfg.GrantParam == "" {
		cfg.GrantParam = "token"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	if cfg.PostLoginPath == "" {
		cfg.PostLoginPath = "/admin"
	}
	return nil
}
