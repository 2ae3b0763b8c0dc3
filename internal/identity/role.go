package identity

import (
	"strings"

	"tenantkit.dev/api/internal/model"
)

// RoleFromExternal maps a provider role slug to a local role. The provider
// can never mint an OWNER: "owner" maps to ADMIN. ok is false for slugs
// that are not recognized, in which case MEMBER is returned.
func RoleFromExternal(slug string) (role model.Role, ok bool) {
	s := strings.ToLower(strings.TrimSpace(slug))
	s = strings.TrimPrefix(s, "org:")
	switch s {
	case "owner", "admin":
		return model.RoleAdmin, true
	case "member":
		return model.RoleMember, true
	case "viewer":
		return model.RoleViewer, true
	default:
		return model.RoleMember, false
	}
}

// RoleToExternal maps a local role to the provider's two-role vocabulary.
func RoleToExternal(role model.Role) string {
	switch role {
	case model.RoleOwner, model.RoleAdmin:
		return "admin"
	default:
		return "member"
	}
}
