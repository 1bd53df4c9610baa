package rotation

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/logger"
	"github.com/pagecraft/authkit/core/session"
)

// Refresher exchanges the currently held credential for a fresh one.
// Implemented by the backend API client.
type Refresher interface {
	Refresh(ctx handler.Context) (string, error)
}

// Manager proactively replaces a credential before it naturally expires,
// shrinking the window in which a near-expiry credential is used and
// smoothing over clock skew between client and backend.
//
// Rotation is advisory and best-effort: a failed rotation leaves the old
// credential in place and the system simply retries on the next eligible
// request.
type Manager struct {
	sessions  *session.Store
	refresher Refresher
	throttle  Throttle
	cfg       Config
	now       func() time.Time
	log       *slog.Logger
}

// Config holds rotation timing parameters.
type Config struct {
	// VirtualExpiry is the credential age after which rotation is desired.
	// It is a client-enforced window, shorter than the credential's actual
	// lifetime on the backend.
	VirtualExpiry time.Duration `env:"ROTATION_VIRTUAL_EXPIRY" envDefault:"12m"`
	// MinInterval is the minimum spacing between rotation attempts for one
	// credential. Must be shorter than VirtualExpiry.
	MinInterval time.Duration `env:"ROTATION_MIN_INTERVAL" envDefault:"1m"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig replaces the default timing configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithThrottle replaces the default process-local attempt throttle.
// Use RedisThrottle in multi-instance deployments that need the spacing
// enforced across instances.
func WithThrottle(t Throttle) Option {
	return func(m *Manager) {
		if t != nil {
			m.throttle = t
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for rotation outcomes.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a rotation manager. Nil dependencies panic; an invalid timing
// configuration (MinInterval >= VirtualExpiry) returns an error.
func New(sessions *session.Store, refresher Refresher, opts ...Option) (*Manager, error) {
	if sessions == nil {
		panic("rotation manager: session store is required")
	}
	if refresher == nil {
		panic("rotation manager: refresher is required")
	}

	m := &Manager{
		sessions:  sessions,
		refresher: refresher,
		cfg: Config{
			VirtualExpiry: 12 * time.Minute,
			MinInterval:   time.Minute,
		},
		now: time.Now,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.cfg.VirtualExpiry <= 0 || m.cfg.MinInterval <= 0 || m.cfg.MinInterval >= m.cfg.VirtualExpiry {
		return nil, ErrInvalidInterval
	}

	if m.throttle == nil {
		m.throttle = NewMemoryThrottle(m.cfg.MinInterval, m.now)
	}

	return m, nil
}

// NeedsRotation reports whether the held credential is old enough to warrant
// proactive renewal. No session at all means there is nothing to rotate; a
// record carrying a credential without an issuance timestamp is stale by
// definition and rotates immediately, throttle permitting.
func (m *Manager) NeedsRotation(ctx handler.Context) bool {
	cred, err := m.sessions.Get(ctx)
	if err != nil {
		return false
	}
	issued, err := m.sessions.IssuedAt(ctx)
	if err != nil {
		return false
	}

	if !m.throttle.Ready(ctx, throttleKey(cred)) {
		return false
	}
	if issued.IsZero() {
		return true
	}
	return m.now().Sub(issued) >= m.cfg.VirtualExpiry
}

// Rotate calls the backend refresh capability and writes the fresh credential
// through the session store, re-stamping its issuance time. The attempt is
// marked on the throttle before the backend call so concurrent attempts are
// bounded. On any failure the existing record is left untouched: the old
// credential remains usable until the backend actually rejects it.
func (m *Manager) Rotate(ctx handler.Context) error {
	cred, err := m.sessions.Get(ctx)
	if err != nil {
		return err
	}

	key := throttleKey(cred)
	if !m.throttle.Ready(ctx, key) {
		return ErrThrottled
	}
	m.throttle.Mark(ctx, key)

	fresh, err := m.refresher.Refresh(ctx)
	if err != nil {
		return errors.Join(ErrRefreshFailed, err)
	}

	if err := m.sessions.Set(ctx, fresh); err != nil {
		return err
	}

	m.log.DebugContext(ctx, "credential rotated", logger.Component("rotation"))
	return nil
}

// RotateIfNeeded is the per-request entry point: it rotates when eligible and
// swallows failures. A failed rotation never surfaces to the user; the old
// credential stays in use until the backend rejects it.
func (m *Manager) RotateIfNeeded(ctx handler.Context) {
	if !m.NeedsRotation(ctx) {
		return
	}
	if err := m.Rotate(ctx); err != nil && !errors.Is(err, ErrThrottled) {
		m.log.DebugContext(ctx, "proactive rotation failed",
			logger.Component("rotation"), logger.Error(err))
	}
}

// throttleKey derives a stable attempt-spacing key from the credential
// without holding the credential itself in throttle state.
func throttleKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:8])
}
