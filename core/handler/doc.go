// Package handler defines the request context abstraction and handler types
// shared by the session, anti-forgery, rotation, and handoff components.
//
// Every session operation in this module is explicitly bound to one
// request/response cycle through the Context interface rather than ambient
// state. Applications with their own context types only need to satisfy the
// interface; RequestContext is provided as the default implementation.
package handler
