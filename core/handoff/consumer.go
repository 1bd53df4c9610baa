package handoff

import (
	"errors"
	"io"
	"log/slog"

	"github.com/pagecraft/authkit/core/backend"
	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/logger"
	"github.com/pagecraft/authkit/core/session"
)

// Consumer runs the tenant side of the handoff: the login entry point reads
// the grant from the incoming query parameter, exchanges it for a
// tenant-scoped credential, establishes the tenant origin's own session
// record, and redirects internally so the grant never survives in the
// visible URL.
type Consumer struct {
	client   *backend.Client
	sessions *session.Store
	cfg      Config
	log      *slog.Logger
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithConsumerLogger sets the logger for consume outcomes.
func WithConsumerLogger(log *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		if log != nil {
			c.log = log
		}
	}
}

// NewConsumer creates the tenant side of the handoff protocol.
func NewConsumer(client *backend.Client, sessions *session.Store, cfg Config, opts ...ConsumerOption) (*Consumer, error) {
	if client == nil {
		panic("handoff consumer: backend client is required")
	}
	if sessions == nil {
		panic("handoff consumer: session store is required")
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	c := &Consumer{
		client:   client,
		sessions: sessions,
		cfg:      cfg,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Consume exchanges the grant carried by the incoming request for a
// tenant-scoped credential, writes the session record, and returns the user
// together with the internal path the handler must redirect to so the grant
// is stripped from the URL.
//
// Every failure is explicit: an expired, consumed, or missing grant must
// never degrade into an anonymous session that looks like success.
func (c *Consumer) Consume(ctx handler.Context) (backend.User, string, error) {
	grant := ctx.Request().URL.Query().Get(c.cfg.GrantParam)
	if grant == "" {
		return backend.User{}, "", ErrMissingGrant
	}

	cred, user, err := c.client.ExchangeGrant(ctx, grant)
	if err != nil {
		c.log.WarnContext(ctx, "handoff grant exchange failed", logger.Error(err))
		return backend.User{}, "", errors.Join(ErrGrantExchange, err)
	}

	if err := c.sessions.Set(ctx, cred); err != nil {
		return backend.User{}, "", err
	}

	return user, c.cfg.PostLoginPath, nil
}
