package backend

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/pagecraft/authkit/core/handler"
)

// User is the backend's representation of an authenticated user.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Grant is a short-lived, single-purpose credential minted by the backend to
// authenticate the user on one named tenant origin. It is never written to
// any session store; it exists only in the handoff redirect URL.
type Grant struct {
	Token  string `json:"token"`
	Tenant string `json:"tenant_id"`
}

type credentialResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates with email and password and returns the issued
// credential and user profile. The caller stores the credential through the
// session store; the client itself never writes session state.
func (c *Client) Login(ctx handler.Context, email, password string) (string, User, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out credentialResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return "", User{}, err
	}
	return out.Token, out.User, nil
}

// Refresh exchanges the currently held credential for a fresh one. The
// current credential must still be minimally valid on the backend.
// Refresh implements rotation.Refresher.
func (c *Client) Refresh(ctx handler.Context) (string, error) {
	var out credentialResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Me returns the current user, or ErrUnauthenticated when the backend rejects
// the attached credential. Used to probe session validity.
func (c *Client) Me(ctx handler.Context) (User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// Logout invalidates the credential server-side. Callers clear the session
// store afterward regardless of this call's outcome.
func (c *Client) Logout(ctx handler.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// IssueTenantGrant mints a handoff grant scoped to the given tenant, using
// the control-plane credential for authorization.
func (c *Client) IssueTenantGrant(ctx handler.Context, tenant string) (Grant, error) {
	var out Grant
	path := "/tenants/" + url.PathEscape(tenant) + "/handoff"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return Grant{}, err
	}
	return out, nil
}

// ExchangeGrant trades a handoff grant for a tenant-scoped credential on the
// tenant side. The grant is consumed by the backend on first use.
func (c *Client) ExchangeGrant(ctx handler.Context, grant string) (string, User, error) {
	in := struct {
		Token string `json:"token"`
	}{Token: grant}

	var out credentialResponse
	if err := c.do(ctx, http.MethodPost, "/auth/handoff/exchange", in, &out); err != nil {
		return "", User{}, err
	}
	return out.Token, out.User, nil
}
