package session

import "time"

// Config holds session store configuration.
type Config struct {
	// CookieName is the sealed cookie holding the session record.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"pc_session"`
	// CSRFCookieName is the anti-forgery cookie removed together with the
	// session on Clear. Must match the csrf guard configuration.
	CSRFCookieName string `env:"CSRF_COOKIE_NAME" envDefault:"pc_csrf"`
	// TTL is the session cookie lifetime.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"` // 7 days
}

func defaultConfig() Config {
	return Config{
		CookieName:     "pc_session",
		CSRFCookieName: "pc_csrf",
		TTL:            7 * 24 * time.Hour,
	}
}
