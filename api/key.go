package api

import "time"

// APIKey describes a provider connection: an upstream LLM provider credential
// held by the gateway on behalf of a tenant. The secret itself is write-only;
// reads return a masked form.
type APIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	MaskedKey string    `json:"masked_key"`
	Created   time.Time `json:"created"`
}

// APIKeySpec defines creation properties for a provider connection.
type APIKeySpec struct {
	// (required) A human-friendly name, unique within the tenant.
	Name string `json:"name"`

	// (required) Upstream provider identifier, e.g. "openai".
	Provider string `json:"provider"`

	// (required) The provider-issued secret. Never returned by reads.
	Secret string `json:"secret"`
}
