package api

import "time"

// AccessToken describes a personal access token for programmatic access to
// the gateway. The token value is returned once, at creation.
type AccessToken struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Prefix   string    `json:"prefix"`
	Created  time.Time `json:"created"`
	LastUsed time.Time `json:"last_used,omitempty"`

	// Token is the full secret, present only in the creation response.
	Token string `json:"token,omitempty"`
}

// AccessTokenSpec defines creation properties for a personal access token.
type AccessTokenSpec struct {
	Name string `json:"name"`
}
