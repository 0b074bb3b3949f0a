package client

import (
	"context"
	"net/http"
	"path"

	"github.com/relaygate/relay/api"
)

// ListMyOrgs returns the authenticated user's organization memberships.
func (c *Client) ListMyOrgs(ctx context.Context) ([]api.OrgMembership, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/orgs/mine", nil, nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var body struct {
		Data []api.OrgMembership `json:"data"`
	}
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// ListOrgMembers returns the members of an organization.
func (c *Client) ListOrgMembers(ctx context.Context, orgID string) ([]api.OrgMembership, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, path.Join("/v1/orgs", orgID, "members"), nil, nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var body struct {
		Data []api.OrgMembership `json:"data"`
	}
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// AddOrgMember invites a user to an organization with a role.
func (c *Client) AddOrgMember(ctx context.Context, orgID string, spec api.OrgMemberSpec) (*api.OrgMembership, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, path.Join("/v1/orgs", orgID, "members"), nil, spec)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var member api.OrgMembership
	if err := parseResponse(resp, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveOrgMember removes a user from an organization.
func (c *Client) RemoveOrgMember(ctx context.Context, orgID, userID string) error {
	resp, err := c.sendRequest(ctx, http.MethodDelete, path.Join("/v1/orgs", orgID, "members", userID), nil, nil)
	if err != nil {
		return err
	}
	defer safeClose(resp.Body)
	return errorFromResponse(resp)
}
