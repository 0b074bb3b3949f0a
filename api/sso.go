package api

// SSORequest asks the backend for an identity-provider authorization URL.
type SSORequest struct {
	// (optional) Organization whose SSO connection should handle the login.
	OrganizationID string `json:"organization_id,omitempty"`

	// (optional) A specific connection when the org has several.
	ConnectionID string `json:"connection_id,omitempty"`

	// (optional) Pre-filled account hint for the provider's login form.
	LoginHint string `json:"login_hint,omitempty"`

	// Opaque value echoed back on the callback for CSRF/session binding.
	State string `json:"state"`

	// Where the provider should redirect after authentication.
	RedirectURI string `json:"redirect_uri"`
}

// SSOAuthorization is the backend-issued authorization URL for a login.
type SSOAuthorization struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// SSOExchange trades an authorization code for a session.
type SSOExchange struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}
