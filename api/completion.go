package api

// CompletionSpec describes a playground prompt to run through the gateway.
type CompletionSpec struct {
	// (required) Model to route to, e.g. "gpt-4o" or "claude-sonnet".
	Model string `json:"model"`

	// (required) The prompt text.
	Prompt string `json:"prompt"`

	// (optional) Generation limits.
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Completion is the gateway's response to a playground prompt.
type Completion struct {
	ID       string          `json:"id"`
	Model    string          `json:"model"`
	Provider string          `json:"provider"`
	Text     string          `json:"text"`
	Usage    CompletionUsage `json:"usage"`
}

// CompletionUsage reports token counts and backend-computed cost for a single
// completion.
type CompletionUsage struct {
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	Cost         string `json:"cost"`
}
