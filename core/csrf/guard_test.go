package csrf_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/authkit/core/cookie"
	"github.com/pagecraft/authkit/core/csrf"
	"github.com/pagecraft/authkit/core/handler"
)

const testSecret = "test-secret-key-32-characters!!!"

func newGuard(t *testing.T) *csrf.Guard {
	t.Helper()
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return csrf.New(m)
}

func newCtx(prev *httptest.ResponseRecorder) (*handler.RequestContext, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			r.AddCookie(c)
		}
	}
	return handler.NewRequestContext(w, r), w
}

func TestGuard_Token(t *testing.T) {
	t.Run("generates and persists a token", func(t *testing.T) {
		guard := newGuard(t)

		ctx, w := newCtx(nil)
		token, err := guard.Token(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "pc_csrf", cookies[0].Name)
		assert.Equal(t, token, cookies[0].Value)
		assert.False(t, cookies[0].HttpOnly, "token must be embeddable in rendered forms")
	})

	t.Run("returns the existing token unchanged", func(t *testing.T) {
		guard := newGuard(t)

		ctx, w := newCtx(nil)
		first, err := guard.Token(ctx)
		require.NoError(t, err)

		next, _ := newCtx(w)
		second, err := guard.Token(next)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("tokens differ across sessions", func(t *testing.T) {
		guard := newGuard(t)

		ctx1, _ := newCtx(nil)
		ctx2, _ := newCtx(nil)
		t1, err := guard.Token(ctx1)
		require.NoError(t, err)
		t2, err := guard.Token(ctx2)
		require.NoError(t, err)
		assert.NotEqual(t, t1, t2)
	})
}

func TestGuard_Validate(t *testing.T) {
	t.Run("accepts the issued token", func(t *testing.T) {
		guard := newGuard(t)

		ctx, w := newCtx(nil)
		token, err := guard.Token(ctx)
		require.NoError(t, err)

		// Same cycle: token issued moments ago.
		assert.True(t, guard.Validate(ctx, token))

		// Next cycle: token arrives via cookie.
		next, _ := newCtx(w)
		assert.True(t, guard.Validate(next, token))
	})

	t.Run("rejects mismatches and absences", func(t *testing.T) {
		guard := newGuard(t)

		ctx, w := newCtx(nil)
		token, err := guard.Token(ctx)
		require.NoError(t, err)

		next, _ := newCtx(w)
		// Same length, different content.
		flipped := "A" + token[1:]
		if flipped == token {
			flipped = "B" + token[1:]
		}
		assert.False(t, guard.Validate(next, flipped))

		// Different length.
		assert.False(t, guard.Validate(next, token[:len(token)-1]))

		// Absent submission.
		assert.False(t, guard.Validate(next, ""))

		// Absent stored token.
		bare, _ := newCtx(nil)
		assert.False(t, guard.Validate(bare, token))
	})

	t.Run("mismatch position does not change the result", func(t *testing.T) {
		// Timing-insensitive equivalence: a first-byte mismatch and a
		// last-byte mismatch are the same verdict through the same full-length
		// comparison path.
		guard := newGuard(t)

		ctx, w := newCtx(nil)
		token, err := guard.Token(ctx)
		require.NoError(t, err)

		next, _ := newCtx(w)
		early := "#" + token[1:]
		late := token[:len(token)-1] + "#"
		assert.False(t, guard.Validate(next, early))
		assert.False(t, guard.Validate(next, late))
	})
}
