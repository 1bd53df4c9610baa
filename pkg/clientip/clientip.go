// Package clientip extracts the real client IP address from HTTP requests.
//
// Proxy headers are checked in priority order (CDN headers first, then the
// common proxy headers, then the direct connection), so security logs behind
// a load balancer or CDN record the originating client rather than the hop
// in front of the application.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Proxy headers in priority order. CDN-set headers are trusted over generic
// proxy headers because intermediate hops cannot overwrite them.
var headers = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client IP for the request, or an empty string when no
// valid address can be determined.
func GetIP(r *http.Request) string {
	for _, h := range headers {
		if ip := parse(r.Header.Get(h)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return parse(host)
}

// parse validates and normalizes a header value. X-Forwarded-For may carry a
// comma-separated chain; the leftmost entry is the original client.
func parse(value string) string {
	value, _, _ = strings.Cut(value, ",")
	ip := net.ParseIP(strings.TrimSpace(value))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
