package client

import (
	"context"
	"net/http"
	"path"

	"github.com/relaygate/relay/api"
)

// ListAccessTokens returns the user's personal access tokens.
func (c *Client) ListAccessTokens(ctx context.Context) ([]api.AccessToken, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/tokens", nil, nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var body struct {
		Data []api.AccessToken `json:"data"`
	}
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// CreateAccessToken mints a personal access token. The secret is present only
// in this response.
func (c *Client) CreateAccessToken(ctx context.Context, spec api.AccessTokenSpec) (*api.AccessToken, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/tokens", nil, spec)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var token api.AccessToken
	if err := parseResponse(resp, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteAccessToken revokes a personal access token.
func (c *Client) DeleteAccessToken(ctx context.Context, id string) error {
	resp, err := c.sendRequest(ctx, http.MethodDelete, path.Join("/v1/tokens", id), nil, nil)
	if err != nil {
		return err
	}
	defer safeClose(resp.Body)
	return errorFromResponse(resp)
}
