package api

// UsageQuery bounds a usage or cost read to an absolute date window and,
// optionally, a single provider. Dates are ISO strings (YYYY-MM-DD).
type UsageQuery struct {
	StartDate string
	EndDate   string
	Provider  string
}

// UsageSummary aggregates tenant usage over a date window.
type UsageSummary struct {
	TotalRequests int64 `json:"total_requests"`
	TotalTokens   int64 `json:"total_tokens"`

	// TotalCost is a dollar amount as a decimal string, e.g. "0.0627775092".
	TotalCost string `json:"total_cost"`

	// Per-provider breakdown, indexed by provider identifier. The key set
	// defines which providers actually appear in the window.
	Providers map[string]ProviderUsage `json:"providers,omitempty"`
}

// ProviderUsage is one provider's share of a usage summary.
type ProviderUsage struct {
	Requests int64  `json:"requests"`
	Tokens   int64  `json:"tokens"`
	Cost     string `json:"cost"`
}

// UsagePoint is one day of a usage trend.
type UsagePoint struct {
	Date     string `json:"date"`
	Requests int64  `json:"requests"`
	Tokens   int64  `json:"tokens"`
	Cost     string `json:"cost"`
}

// CostBreakdown is one provider's row of a cost analysis.
type CostBreakdown struct {
	Provider string `json:"provider"`
	Requests int64  `json:"requests"`
	Tokens   int64  `json:"tokens"`
	Cost     string `json:"cost"`
}
