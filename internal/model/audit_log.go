package model

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditOrganizationCreated AuditAction = "organization.created"
	AuditOrganizationUpdated AuditAction = "organization.updated"
	AuditOrganizationDeleted AuditAction = "organization.deleted"
	AuditMemberInvited       AuditAction = "organization.member_invited"
	AuditMemberJoined        AuditAction = "organization.member_joined"
	AuditMemberRoleUpdated   AuditAction = "organization.member_role_updated"
	AuditMemberRemoved       AuditAction = "organization.member_removed"
	AuditInvitationRevoked   AuditAction = "organization.invitation_revoked"
	AuditAPIKeyCreated       AuditAction = "api_key.created"
	AuditAPIKeyRevoked       AuditAction = "api_key.revoked"
	AuditMonitorCreated      AuditAction = "monitor.created"
	AuditMonitorUpdated      AuditAction = "monitor.updated"
	AuditMonitorDeleted      AuditAction = "monitor.deleted"
	AuditUserProfileUpdated  AuditAction = "user.profile_updated"
	AuditUserAccountDeleted  AuditAction = "user.account_deleted"
)

type ResourceType string

const (
	ResourceOrganization       ResourceType = "organization"
	ResourceOrganizationMember ResourceType = "organization_member"
	ResourceInvitation         ResourceType = "invitation"
	ResourceAPIKey             ResourceType = "api_key"
	ResourceMonitor            ResourceType = "monitor"
	ResourceUser               ResourceType = "user"
)

// AuditLog is an immutable ledger row. UserID is nil for system actions.
type AuditLog struct {
	ID             int64           `json:"id"`
	OrganizationID int64           `json:"organization_id"`
	UserID         *int64          `json:"user_id,omitempty"`
	Action         AuditAction     `json:"action"`
	ResourceType   ResourceType    `json:"resource_type"`
	ResourceID     string          `json:"resource_id"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	IPAddress      *string         `json:"ip_address,omitempty"`
	UserAgent      *string         `json:"user_agent,omitempty"`
	RequestID      *string         `json:"request_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
