package api

// Model describes an upstream model routable through the gateway, including
// its backend-published per-token pricing.
type Model struct {
	ID          string `json:"id"`
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name,omitempty"`

	// Per-million-token prices as decimal strings, e.g. "2.50".
	InputPrice  string `json:"input_price"`
	OutputPrice string `json:"output_price"`
}
