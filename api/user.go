package api

import "time"

// User describes an authenticated Relay account. The record is owned by the
// identity provider and mirrored read-only into the client.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// UserPatchSpec describes a patch to apply to a user's editable fields.
type UserPatchSpec struct {
	// (optional) Name to display when showing the user.
	DisplayName *string `json:"display_name,omitempty"`

	// (optional) New contact email. Changing it may require re-verification.
	Email *string `json:"email,omitempty"`
}

// Session pairs a bearer credential with the user it authenticates.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
