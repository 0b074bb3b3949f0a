package client

import (
	"context"
	"net/http"
	"path"

	"github.com/relaygate/relay/api"
)

// ListAPIKeys returns the tenant's provider connections.
func (c *Client) ListAPIKeys(ctx context.Context) ([]api.APIKey, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/keys", nil, nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var body struct {
		Data []api.APIKey `json:"data"`
	}
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// CreateAPIKey registers a provider connection in the current tenant.
func (c *Client) CreateAPIKey(ctx context.Context, spec api.APIKeySpec) (*api.APIKey, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/keys", nil, spec)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var key api.APIKey
	if err := parseResponse(resp, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// DeleteAPIKey removes a provider connection.
func (c *Client) DeleteAPIKey(ctx context.Context, id string) error {
	resp, err := c.sendRequest(ctx, http.MethodDelete, path.Join("/v1/keys", id), nil, nil)
	if err != nil {
		return err
	}
	defer safeClose(resp.Body)
	return errorFromResponse(resp)
}
