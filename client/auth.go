package client

import (
	"context"
	"net/http"

	"github.com/relaygate/relay/api"
)

// WhoAmI returns the client's active user.
func (c *Client) WhoAmI(ctx context.Context) (*api.User, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/auth/whoami", nil, nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var user api.User
	if err := parseResponse(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn authenticates with an email and password. On success the returned
// session's token becomes the client's credential.
func (c *Client) SignIn(ctx context.Context, email, password string) (*api.Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/auth/signin", nil, body)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var session api.Session
	if err := parseResponse(resp, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*api.Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/auth/signup", nil, body)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var session api.Session
	if err := parseResponse(resp, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// SignOut invalidates the current session server-side and drops the client's
// credential regardless of the call's outcome.
func (c *Client) SignOut(ctx context.Context) error {
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/auth/signout", nil, nil)
	c.SetToken("")
	if err != nil {
		return err
	}
	defer safeClose(resp.Body)
	return errorFromResponse(resp)
}

// ResetPassword requests a password-reset email for the account.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/auth/reset-password", nil, body)
	if err != nil {
		return err
	}
	defer safeClose(resp.Body)
	return errorFromResponse(resp)
}

// UpdateProfile patches the authenticated user's editable fields.
func (c *Client) UpdateProfile(ctx context.Context, spec api.UserPatchSpec) (*api.User, error) {
	resp, err := c.sendRequest(ctx, http.MethodPatch, "/v1/auth/profile", nil, spec)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var user api.User
	if err := parseResponse(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SSOAuthorizeURL asks the backend to issue an identity-provider
// authorization URL for an SSO login.
func (c *Client) SSOAuthorizeURL(ctx context.Context, req api.SSORequest) (*api.SSOAuthorization, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/auth/sso/authorize", nil, req)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var auth api.SSOAuthorization
	if err := parseResponse(resp, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// ExchangeSSOCode trades an SSO authorization code for a session. On success
// the session token becomes the client's credential.
func (c *Client) ExchangeSSOCode(ctx context.Context, code, state string) (*api.Session, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/auth/sso/exchange", nil, api.SSOExchange{Code: code, State: state})
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var session api.Session
	if err := parseResponse(resp, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}
