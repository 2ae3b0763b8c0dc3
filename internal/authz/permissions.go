// Package authz resolves what a user may do inside an organization.
//
// Permissions are never stored per membership. They are derived from the
// member's role through rolePermissions, so a role change takes effect on
// the next check.
package authz

import "tenantkit.dev/api/internal/model"

// rolePermissions is authored role by role. The sets are not nested:
// MEMBER holds monitors:delete, ADMIN does not.
var rolePermissions = map[model.Role][]model.Permission{
	model.RoleOwner: {
		model.PermOrganizationRead,
		model.PermOrganizationSettingsRead,
		model.PermOrganizationSettingsWrite,
		model.PermOrganizationBillingRead,
		model.PermOrganizationBillingWrite,
		model.PermOrganizationMembersRead,
		model.PermOrganizationMembersWrite,
		model.PermOrganizationDelete,
		model.PermMonitorsRead,
		model.PermMonitorsWrite,
		model.PermMonitorsDelete,
		model.PermAnalyticsRead,
		model.PermAPIKeysRead,
		model.PermAPIKeysWrite,
		model.PermAuditLogsRead,
	},
	model.RoleAdmin: {
		model.PermOrganizationRead,
		model.PermOrganizationSettingsRead,
		model.PermOrganizationSettingsWrite,
		model.PermOrganizationBillingRead,
		model.PermOrganizationMembersRead,
		model.PermOrganizationMembersWrite,
		model.PermMonitorsRead,
		model.PermMonitorsWrite,
		model.PermAnalyticsRead,
		model.PermAPIKeysRead,
		model.PermAPIKeysWrite,
		model.PermAuditLogsRead,
	},
	model.RoleMember: {
		model.PermOrganizationRead,
		model.PermOrganizationMembersRead,
		model.PermMonitorsRead,
		model.PermMonitorsWrite,
		model.PermMonitorsDelete,
		model.PermAnalyticsRead,
		model.PermAPIKeysRead,
	},
	model.RoleViewer: {
		model.PermOrganizationRead,
		model.PermOrganizationMembersRead,
		model.PermMonitorsRead,
		model.PermAnalyticsRead,
	},
}

// PermissionsFor returns a copy of the role's permission set.
// Unknown roles have no permissions.
func PermissionsFor(role model.Role) []model.Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]model.Permission, len(perms))
	copy(out, perms)
	return out
}

// RoleHas reports whether role grants perm. Unknown roles grant nothing.
func RoleHas(role model.Role, perm model.Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// CanManage reports whether a member with role actor may change or remove
// a member holding target. Only a strictly higher role qualifies, so ADMINs
// cannot touch other ADMINs and nobody manages an OWNER.
func CanManage(actor, target model.Role) bool {
	if target == model.RoleOwner {
		return false
	}
	return actor.Outranks(target)
}

// KeyAllows checks an API key's explicit grant list. Keys carry their own
// permission subset and are not bound to the creator's current role.
func KeyAllows(key *model.APIKey, orgID int64, perm model.Permission) bool {
	if key == nil || key.OrganizationID != orgID {
		return false
	}
	return key.HasPermission(perm)
}
