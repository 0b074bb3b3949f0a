package client

import (
	"context"
	"net/http"

	"github.com/relaygate/relay/api"
)

// ListModels returns the models routable through the gateway, with their
// backend-published pricing.
func (c *Client) ListModels(ctx context.Context) ([]api.Model, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/models", nil, nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var body struct {
		Data []api.Model `json:"data"`
	}
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// CreateCompletion runs a playground prompt through the gateway.
func (c *Client) CreateCompletion(ctx context.Context, spec api.CompletionSpec) (*api.Completion, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, "/v1/completions", nil, spec)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var completion api.Completion
	if err := parseResponse(resp, &completion); err != nil {
		return nil, err
	}
	return &completion, nil
}
