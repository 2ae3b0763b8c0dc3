package model

// Role is a member's standing inside one organization.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// Roles lists every role from highest to lowest.
var Roles = []Role{RoleOwner, RoleAdmin, RoleMember, RoleViewer}

// Rank orders roles for display and comparison. Lower is higher: OWNER is 0.
// Unknown roles rank below VIEWER.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 0
	case RoleAdmin:
		return 1
	case RoleMember:
		return 2
	case RoleViewer:
		return 3
	default:
		return len(Roles)
	}
}

// Outranks reports whether r is strictly higher than other.
func (r Role) Outranks(other Role) bool {
	return r.Valid() && r.Rank() < other.Rank()
}

func (r Role) Valid() bool {
	return r.Rank() < len(Roles)
}

// ParseRole accepts the canonical upper-case names only.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
