package model

// Permission is an opaque capability tag. Permissions are derived from roles
// and never stored per membership.
type Permission string

const (
	PermOrganizationRead          Permission = "organization:read"
	PermOrganizationSettingsRead  Permission = "organization:settings:read"
	PermOrganizationSettingsWrite Permission = "organization:settings:write"
	PermOrganizationBillingRead   Permission = "organization:billing:read"
	PermOrganizationBillingWrite  Permission = "organization:billing:write"
	PermOrganizationMembersRead   Permission = "organization:members:read"
	PermOrganizationMembersWrite  Permission = "organization:members:write"
	PermOrganizationDelete        Permission = "organization:delete"
	PermMonitorsRead              Permission = "monitors:read"
	PermMonitorsWrite             Permission = "monitors:write"
	PermMonitorsDelete            Permission = "monitors:delete"
	PermAnalyticsRead             Permission = "analytics:read"
	PermAPIKeysRead               Permission = "api_keys:read"
	PermAPIKeysWrite              Permission = "api_keys:write"
	PermAuditLogsRead             Permission = "audit_logs:read"
)

// AllPermissions is every permission known to the system.
var AllPermissions = []Permission{
	PermOrganizationRead,
	PermOrganizationSettingsRead,
	PermOrganizationSettingsWrite,
	PermOrganizationBillingRead,
	PermOrganizationBillingWrite,
	PermOrganizationMembersRead,
	PermOrganizationMembersWrite,
	PermOrganizationDelete,
	PermMonitorsRead,
	PermMonitorsWrite,
	PermMonitorsDelete,
	PermAnalyticsRead,
	PermAPIKeysRead,
	PermAPIKeysWrite,
	PermAuditLogsRead,
}

func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
