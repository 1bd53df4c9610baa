package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/authkit/core/cookie"
	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/session"
)

const testSecret = "test-secret-key-32-characters!!!"

func newCookieManager(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return m
}

// newCtx builds a request context carrying the cookies written to prev, so a
// test can span multiple request/response cycles the way a browser would.
// A browser stores the last Set-Cookie per name, so only the final header for
// each name is replayed.
func newCtx(prev *httptest.ResponseRecorder) (*handler.RequestContext, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	if prev != nil {
		latest := make(map[string]*http.Cookie)
		for _, c := range prev.Result().Cookies() {
			latest[c.Name] = c
		}
		for _, c := range latest {
			if c.MaxAge >= 0 && c.Value != "" {
				r.AddCookie(c)
			}
		}
	}
	return handler.NewRequestContext(w, r), w
}

func TestStore_SetGet(t *testing.T) {
	t.Run("get returns the stored credential", func(t *testing.T) {
		store := session.New(newCookieManager(t))

		ctx, w := newCtx(nil)
		require.NoError(t, store.Set(ctx, "abc123"))

		// Visible within the same cycle.
		cred, err := store.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "abc123", cred)

		// And on the next cycle via the cookie.
		next, _ := newCtx(w)
		cred, err = store.Get(next)
		assert.NoError(t, err)
		assert.Equal(t, "abc123", cred)
	})

	t.Run("most recent set wins", func(t *testing.T) {
		store := session.New(newCookieManager(t))

		ctx, w := newCtx(nil)
		require.NoError(t, store.Set(ctx, "first"))
		require.NoError(t, store.Set(ctx, "second"))

		cred, err := store.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "second", cred)

		next, _ := newCtx(w)
		cred, err = store.Get(next)
		assert.NoError(t, err)
		assert.Equal(t, "second", cred)
	})

	t.Run("absent without a session", func(t *testing.T) {
		store := session.New(newCookieManager(t))

		ctx, _ := newCtx(nil)
		_, err := store.Get(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
		_, err = store.IssuedAt(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("rejects empty credential", func(t *testing.T) {
		store := session.New(newCookieManager(t))

		ctx, _ := newCtx(nil)
		assert.ErrorIs(t, store.Set(ctx, ""), session.ErrEmptyCredential)
	})
}

func TestStore_IssuedAt(t *testing.T) {
	t.Run("stamped together with the credential", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		store := session.New(newCookieManager(t),
			session.WithClock(func() time.Time { return now }))

		ctx, w := newCtx(nil)
		require.NoError(t, store.Set(ctx, "abc123"))

		issued, err := store.IssuedAt(ctx)
		assert.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), issued.UnixMilli())

		next, _ := newCtx(w)
		issued, err = store.IssuedAt(next)
		assert.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), issued.UnixMilli())
	})

	t.Run("re-stamped on overwrite", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		store := session.New(newCookieManager(t),
			session.WithClock(func() time.Time { return now }))

		ctx, _ := newCtx(nil)
		require.NoError(t, store.Set(ctx, "abc123"))

		now = now.Add(10 * time.Minute)
		require.NoError(t, store.Set(ctx, "def456"))

		issued, err := store.IssuedAt(ctx)
		assert.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), issued.UnixMilli())
	})
}

func TestStore_Clear(t *testing.T) {
	t.Run("clears credential and timestamp together", func(t *testing.T) {
		store := session.New(newCookieManager(t))

		ctx, _ := newCtx(nil)
		require.NoError(t, store.Set(ctx, "abc123"))

		store.Clear(ctx)

		_, err := store.Get(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
		_, err = store.IssuedAt(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("expires session and anti-forgery cookies", func(t *testing.T) {
		store := session.New(newCookieManager(t))

		ctx, w := newCtx(nil)
		store.Clear(ctx)

		expired := map[string]bool{}
		for _, c := range w.Result().Cookies() {
			if c.MaxAge < 0 {
				expired[c.Name] = true
			}
		}
		assert.True(t, expired["pc_session"])
		assert.True(t, expired["pc_csrf"])
	})
}

func TestStore_CookieAttributes(t *testing.T) {
	store := session.New(newCookieManager(t), session.WithTTL(7*24*time.Hour))

	ctx, w := newCtx(nil)
	require.NoError(t, store.Set(ctx, "abc123"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "pc_session", c.Name)
	assert.True(t, c.HttpOnly, "credential must not be readable by page script")
	assert.Equal(t, 7*24*60*60, c.MaxAge)
	assert.NotContains(t, c.Value, "abc123", "credential must not appear in cleartext")
}

func TestStore_TamperedCookie(t *testing.T) {
	store := session.New(newCookieManager(t))

	ctx, w := newCtx(nil)
	require.NoError(t, store.Set(ctx, "abc123"))

	next := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	tampered := w.Result().Cookies()[0]
	tampered.Value = "AAAA" + tampered.Value[4:]
	r.AddCookie(tampered)

	_, err := store.Get(handler.NewRequestContext(next, r))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStore_OutsideRequestCycle(t *testing.T) {
	store := session.New(newCookieManager(t))

	assert.Panics(t, func() {
		_ = store.Set(nil, "abc123")
	})
	assert.Panics(t, func() {
		r := httptest.NewRequest("GET", "/", nil)
		_, _ = store.Get(handler.NewRequestContext(nil, r))
	})
}
