package model

import (
	"encoding/json"
	"time"
)

type Organization struct {
	ID          int64           `json:"id"`
	ExternalID  *string         `json:"-"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	AvatarURL   *string         `json:"avatar_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UserOrganization is an organization as seen by one joined member.
type UserOrganization struct {
	Organization
	Role Role
}

// OrganizationStats summarizes an organization for its dashboard.
// ActiveSubscription is nil when there is none or the viewer may not read billing.
type OrganizationStats struct {
	TotalMembers        int64
	PendingMembers      int64
	NewMembersThisMonth int64
	TotalAPIKeys        int64
	ActiveAPIKeys       int64
	TotalMonitors       int64
	RecentActivity      int64
	ActiveSubscription  *Subscription
}
