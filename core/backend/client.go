package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pagecraft/authkit/core/handler"
	"github.com/pagecraft/authkit/core/logger"
	"github.com/pagecraft/authkit/core/session"
)

// Client is the single chokepoint for every outbound call to the backend API.
// It reads the credential from the session store on each call and attaches it
// as a bearer token; requests without a stored credential go out
// unauthenticated, since some endpoints are public.
//
// The client never clears the session store itself: a 401 on one endpoint
// does not necessarily invalidate a session used successfully elsewhere in
// the same request burst. It surfaces ErrUnauthenticated and leaves the
// decision to the calling flow.
type Client struct {
	http     *http.Client
	baseURL  string
	sessions *session.Store
	log      *slog.Logger
}

// Config holds backend API client configuration.
type Config struct {
	// BaseURL is the backend API root, e.g. https://api.pagecraft.dev.
	BaseURL string `env:"BACKEND_API_URL,required"`
	// Timeout bounds every outbound call. A timed-out call is reported as a
	// transient failure and never retried by the client.
	Timeout time.Duration `env:"BACKEND_API_TIMEOUT" envDefault:"30s"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, for tests or custom
// transports. The configured timeout is preserved unless the replacement
// carries its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		if hc.Timeout == 0 {
			clone := *hc
			clone.Timeout = c.http.Timeout
			hc = &clone
		}
		c.http = hc
	}
}

// WithLogger sets the logger for outbound call failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a backend API client. The session store is required: it is the
// only source of credentials for outbound calls.
func New(cfg Config, sessions *session.Store, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if sessions == nil {
		panic("backend client: session store is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		sessions: sessions,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do performs one backend call: encodes in as JSON (when non-nil), attaches
// the current credential and a request ID, and decodes a 2xx body into out
// (when non-nil).
func (c *Client) do(ctx handler.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The credential read happens per call: concurrent requests may read the
	// same value, only rotation and explicit login/logout ever write it.
	if cred, err := c.sessions.Get(ctx); err == nil && cred != "" {
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "backend call failed",
			logger.Method(method), logger.Path(path), logger.Error(err))
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthenticated)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// apiError builds an *APIError from a non-2xx response, falling back to the
// HTTP status text when the body carries no structured error.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&parsed); err == nil {
		if parsed.Code != "" {
			apiErr.Code = parsed.Code
		}
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
	}

	return apiErr
}
