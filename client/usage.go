package client

import (
	"context"
	"net/http"

	"github.com/relaygate/relay/api"
)

func usageQuery(q api.UsageQuery) map[string]string {
	query := map[string]string{
		"start_date": q.StartDate,
		"end_date":   q.EndDate,
	}
	if q.Provider != "" {
		query["provider"] = q.Provider
	}
	return query
}

// GetUsageSummary returns aggregate usage for a date window.
func (c *Client) GetUsageSummary(ctx context.Context, q api.UsageQuery) (*api.UsageSummary, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/usage/summary", usageQuery(q), nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var summary api.UsageSummary
	if err := parseResponse(resp, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetUsageTrend returns per-day usage for a date window.
func (c *Client) GetUsageTrend(ctx context.Context, q api.UsageQuery) ([]api.UsagePoint, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/usage/trend", usageQuery(q), nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var body struct {
		Data []api.UsagePoint `json:"data"`
	}
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// GetCostAnalysis returns per-provider costs for a date window.
func (c *Client) GetCostAnalysis(ctx context.Context, q api.UsageQuery) ([]api.CostBreakdown, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "/v1/usage/cost", usageQuery(q), nil)
	if err != nil {
		return nil, err
	}
	defer safeClose(resp.Body)

	var body struct {
		Data []api.CostBreakdown `json:"data"`
	}
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}
