package handler

import (
	"context"
	"net/http"
	"time"
)

// Context defines the contract for request contexts threaded through the
// session, rotation, and handoff components. It extends context.Context so a
// Context can be passed directly to anything expecting cancellation or
// deadlines (outbound backend calls in particular).
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// RequestContext is the default Context implementation bound to a single
// request/response cycle. It delegates context.Context methods to the
// request's context and keeps request-scoped values in a local map.
type RequestContext struct {
	w      http.ResponseWriter
	r      *http.Request
	values map[any]any
}

// NewRequestContext binds a response writer and request into a RequestContext.
func NewRequestContext(w http.ResponseWriter, r *http.Request) *RequestContext {
	return &RequestContext{w: w, r: r}
}

// Deadline delegates to the request context.
func (c *RequestContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request context.
func (c *RequestContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request context.
func (c *RequestContext) Err() error {
	return c.r.Context().Err()
}

// Value returns request-scoped values set via SetValue, falling back to the
// request context for everything else.
func (c *RequestContext) Value(key any) any {
	if val, ok := c.values[key]; ok {
		return val
	}
	return c.r.Context().Value(key)
}

// Request returns the *http.Request associated with the context.
func (c *RequestContext) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the http.ResponseWriter associated with the context.
func (c *RequestContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL path parameter by key.
func (c *RequestContext) Param(key string) string {
	return c.r.PathValue(key)
}

// SetValue stores a request-scoped value on the context.
func (c *RequestContext) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}
