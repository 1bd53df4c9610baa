package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagecraft/authkit/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Run("falls back to the remote address", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "203.0.113.7:51234"
		assert.Equal(t, "203.0.113.7", clientip.GetIP(r))
	})

	t.Run("cdn header wins over proxy headers", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("CF-Connecting-IP", "203.0.113.7")
		r.Header.Set("X-Forwarded-For", "198.51.100.1")
		assert.Equal(t, "203.0.113.7", clientip.GetIP(r))
	})

	t.Run("leftmost forwarded-for entry is the client", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.1, 10.0.0.1")
		assert.Equal(t, "203.0.113.7", clientip.GetIP(r))
	})

	t.Run("invalid entries are skipped", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "not-an-ip")
		r.Header.Set("X-Real-IP", "203.0.113.7")
		assert.Equal(t, "203.0.113.7", clientip.GetIP(r))
	})

	t.Run("unspecified addresses are rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "0.0.0.0")
		r.RemoteAddr = "203.0.113.7:51234"
		assert.Equal(t, "203.0.113.7", clientip.GetIP(r))
	})

	t.Run("ipv6 is normalized", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "2001:0db8:0000:0000:0000:0000:0000:0001")
		assert.Equal(t, "2001:db8::1", clientip.GetIP(r))
	})
}
