package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/authkit/core/cookie"
	"github.com/pagecraft/authkit/core/csrf"
	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/rotation"
	"github.com/pagecraft/authkit/core/session"
	"github.com/pagecraft/authkit/middleware"
)

const testSecret = "test-secret-key-32-characters!!!"

func newCookieManager(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return m
}

// okHandler records whether it ran and responds 200.
func okHandler(called *bool) handler.HandlerFunc[*handler.RequestContext] {
	return func(ctx *handler.RequestContext) handler.Response {
		*called = true
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		}
	}
}

// run executes the wrapped handler the way a router would.
func run(t *testing.T, h handler.HandlerFunc[*handler.RequestContext], r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	ctx := handler.NewRequestContext(w, r)
	require.NoError(t, h(ctx)(w, r))
	return w
}

func TestCSRF(t *testing.T) {
	t.Run("safe methods pass and get a token issued", func(t *testing.T) {
		guard := csrf.New(newCookieManager(t))
		var called bool
		h := middleware.CSRF[*handler.RequestContext](guard)(okHandler(&called))

		w := run(t, h, httptest.NewRequest("GET", "/settings", nil))
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "pc_csrf", cookies[0].Name)
	})

	t.Run("unsafe request with the issued token passes", func(t *testing.T) {
		guard := csrf.New(newCookieManager(t))
		var called bool
		h := middleware.CSRF[*handler.RequestContext](guard)(okHandler(&called))

		get := run(t, h, httptest.NewRequest("GET", "/settings", nil))
		token := get.Result().Cookies()[0]

		post := httptest.NewRequest("POST", "/settings", nil)
		post.AddCookie(token)
		post.Header.Set("X-CSRF-Token", token.Value)

		w := run(t, h, post)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("form field is the header fallback", func(t *testing.T) {
		guard := csrf.New(newCookieManager(t))
		var called bool
		h := middleware.CSRF[*handler.RequestContext](guard)(okHandler(&called))

		get := run(t, h, httptest.NewRequest("GET", "/settings", nil))
		token := get.Result().Cookies()[0]

		form := "_csrf=" + token.Value + "&name=My+Site"
		post := httptest.NewRequest("POST", "/settings", strings.NewReader(form))
		post.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		post.AddCookie(token)

		w := run(t, h, post)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mismatched token is rejected before the handler", func(t *testing.T) {
		guard := csrf.New(newCookieManager(t))
		var called bool
		h := middleware.CSRF[*handler.RequestContext](guard)(okHandler(&called))

		get := run(t, h, httptest.NewRequest("GET", "/settings", nil))
		token := get.Result().Cookies()[0]
		called = false // the GET above ran the handler legitimately

		post := httptest.NewRequest("POST", "/settings", nil)
		post.AddCookie(token)
		post.Header.Set("X-CSRF-Token", "stale-or-forged-token-value")

		w := run(t, h, post)
		assert.False(t, called, "the handler must not observe a forged request")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		guard := csrf.New(newCookieManager(t))
		var called bool
		h := middleware.CSRF[*handler.RequestContext](guard)(okHandler(&called))

		w := run(t, h, httptest.NewRequest("POST", "/settings", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("custom error handler renders the rejection", func(t *testing.T) {
		guard := csrf.New(newCookieManager(t))
		var called bool
		h := middleware.CSRFWithConfig(middleware.CSRFConfig[*handler.RequestContext]{
			Guard: guard,
			ErrorHandler: func(ctx *handler.RequestContext, err error) handler.Response {
				return func(w http.ResponseWriter, r *http.Request) error {
					http.Error(w, "session expired, reload the form", http.StatusForbidden)
					return nil
				}
			},
		})(okHandler(&called))

		w := run(t, h, httptest.NewRequest("POST", "/settings", nil))
		assert.False(t, called)
		assert.Contains(t, w.Body.String(), "reload the form")
	})

	t.Run("skip bypasses validation", func(t *testing.T) {
		guard := csrf.New(newCookieManager(t))
		var called bool
		h := middleware.CSRFWithConfig(middleware.CSRFConfig[*handler.RequestContext]{
			Guard: guard,
			Skip: func(ctx *handler.RequestContext) bool {
				return strings.HasPrefix(ctx.Request().URL.Path, "/webhooks/")
			},
		})(okHandler(&called))

		w := run(t, h, httptest.NewRequest("POST", "/webhooks/payment", nil))
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("nil guard is a programming error", func(t *testing.T) {
		assert.Panics(t, func() {
			middleware.CSRFWithConfig(middleware.CSRFConfig[*handler.RequestContext]{})
		})
	})
}

func TestRequireSession(t *testing.T) {
	t.Run("passes authenticated requests through", func(t *testing.T) {
		store := session.New(newCookieManager(t))
		var called bool
		h := middleware.RequireSession[*handler.RequestContext](store)(okHandler(&called))

		// Establish a session on one cycle, replay its cookie on the next.
		seed := httptest.NewRecorder()
		require.NoError(t, store.Set(handler.NewRequestContext(seed, httptest.NewRequest("GET", "/", nil)), "abc123"))

		r := httptest.NewRequest("GET", "/admin", nil)
		for _, c := range seed.Result().Cookies() {
			r.AddCookie(c)
		}

		w := run(t, h, r)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects unauthenticated requests with 401", func(t *testing.T) {
		store := session.New(newCookieManager(t))
		var called bool
		h := middleware.RequireSession[*handler.RequestContext](store)(okHandler(&called))

		w := run(t, h, httptest.NewRequest("GET", "/admin", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("redirects to login when configured", func(t *testing.T) {
		store := session.New(newCookieManager(t))
		var called bool
		h := middleware.RequireSessionWithConfig(middleware.RequireSessionConfig[*handler.RequestContext]{
			Sessions:   store,
			RedirectTo: "/login",
		})(okHandler(&called))

		w := run(t, h, httptest.NewRequest("GET", "/admin", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Result().Header.Get("Location"))
	})

	t.Run("nil store is a programming error", func(t *testing.T) {
		assert.Panics(t, func() {
			middleware.RequireSessionWithConfig(middleware.RequireSessionConfig[*handler.RequestContext]{})
		})
	})
}

// staticRefresher always hands out the same replacement credential.
type staticRefresher struct{ token string }

func (s staticRefresher) Refresh(_ handler.Context) (string, error) {
	return s.token, nil
}

func TestRotation(t *testing.T) {
	t.Run("stale credential is rotated before the handler runs", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		store := session.New(newCookieManager(t), session.WithClock(clock))
		manager, err := rotation.New(store, staticRefresher{token: "def456"}, rotation.WithClock(clock))
		require.NoError(t, err)

		var seen string
		h := middleware.Rotation[*handler.RequestContext](manager)(
			func(ctx *handler.RequestContext) handler.Response {
				seen, _ = store.Get(ctx)
				return func(w http.ResponseWriter, r *http.Request) error { return nil }
			})

		seed := httptest.NewRecorder()
		require.NoError(t, store.Set(handler.NewRequestContext(seed, httptest.NewRequest("GET", "/", nil)), "abc123"))

		now = now.Add(13 * time.Minute)
		r := httptest.NewRequest("GET", "/admin", nil)
		for _, c := range seed.Result().Cookies() {
			r.AddCookie(c)
		}
		run(t, h, r)

		assert.Equal(t, "def456", seen, "backend calls in the handler carry the fresh credential")
	})

	t.Run("fresh credential passes untouched", func(t *testing.T) {
		store := session.New(newCookieManager(t))
		manager, err := rotation.New(store, staticRefresher{token: "def456"}, rotation.WithClock(time.Now))
		require.NoError(t, err)

		var seen string
		h := middleware.Rotation[*handler.RequestContext](manager)(
			func(ctx *handler.RequestContext) handler.Response {
				seen, _ = store.Get(ctx)
				return func(w http.ResponseWriter, r *http.Request) error { return nil }
			})

		seed := httptest.NewRecorder()
		require.NoError(t, store.Set(handler.NewRequestContext(seed, httptest.NewRequest("GET", "/", nil)), "abc123"))

		r := httptest.NewRequest("GET", "/admin", nil)
		for _, c := range seed.Result().Cookies() {
			r.AddCookie(c)
		}
		run(t, h, r)

		assert.Equal(t, "abc123", seen)
	})

	t.Run("nil manager is a programming error", func(t *testing.T) {
		assert.Panics(t, func() {
			middleware.RotationWithConfig(middleware.RotationConfig[*handler.RequestContext]{})
		})
	})
}
