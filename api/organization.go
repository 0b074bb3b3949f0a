package api

import "time"

// Organization describes a tenant: the account boundary under which provider
// keys, usage, and access are scoped. Read-only from the client's perspective.
type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name,omitempty"`
	Domain      string    `json:"domain,omitempty"`
	Created     time.Time `json:"created"`
}

// Role is a user's authorization level within an organization.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleNoOrg  Role = "no_org"
)

// OrgMembership describes a user's membership within an organization.
// Memberships are unique per (user, organization).
type OrgMembership struct {
	// Role of the user within the org.
	Role Role `json:"role"`

	// When the user joined the org.
	JoinedAt time.Time `json:"joined_at"`

	// Organization in which the user is a member.
	Organization Organization `json:"organization"`

	// User holding a membership in the org.
	User User `json:"user"`
}

// OrgMemberSpec adds a user to an organization with a role.
type OrgMemberSpec struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
