package dto

import (
	"encoding/json"
	"time"

	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/model"
)

type CreateOrganizationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateOrganizationRequest leaves absent fields untouched. The slug is not
// part of it: slugs never change after creation.
type UpdateOrganizationRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	AvatarURL   *string         `json:"avatar_url,omitempty"`
}

type DeleteOrganizationRequest struct {
	Confirmation string `json:"confirmation"`
}

type OrganizationResponse struct {
	ID          int64           `json:"id,string"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	AvatarURL   *string         `json:"avatar_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Set only when the response is read through a membership.
	Role        model.Role         `json:"role,omitempty"`
	Permissions []model.Permission `json:"permissions,omitempty"`
}

func ToOrganizationResponse(org *model.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:          org.ID,
		Name:        org.Name,
		Slug:        org.Slug,
		Description: org.Description,
		Settings:    org.Settings,
		AvatarURL:   org.AvatarURL,
		CreatedAt:   org.CreatedAt,
		UpdatedAt:   org.UpdatedAt,
	}
}

// ToUserOrganizationResponse adds the caller's role and the permissions it
// grants.
func ToUserOrganizationResponse(org *model.UserOrganization) *OrganizationResponse {
	resp := ToOrganizationResponse(&org.Organization)
	resp.Role = org.Role
	resp.Permissions = authz.PermissionsFor(org.Role)
	return resp
}

func ToUserOrganizationResponses(orgs []model.UserOrganization) []*OrganizationResponse {
	resp := make([]*OrganizationResponse, len(orgs))
	for i := range orgs {
		resp[i] = ToUserOrganizationResponse(&orgs[i])
	}
	return resp
}

type OrganizationStatsResponse struct {
	TotalMembers        int64                 `json:"total_members"`
	PendingMembers      int64                 `json:"pending_members"`
	NewMembersThisMonth int64                 `json:"new_members_this_month"`
	TotalAPIKeys        int64                 `json:"total_api_keys"`
	ActiveAPIKeys       int64                 `json:"active_api_keys"`
	TotalMonitors       int64                 `json:"total_monitors"`
	RecentActivity      int64                 `json:"recent_activity"`
	ActiveSubscription  *SubscriptionResponse `json:"active_subscription,omitempty"`
}

func ToOrganizationStatsResponse(stats *model.OrganizationStats) *OrganizationStatsResponse {
	resp := &OrganizationStatsResponse{
		TotalMembers:        stats.TotalMembers,
		PendingMembers:      stats.PendingMembers,
		NewMembersThisMonth: stats.NewMembersThisMonth,
		TotalAPIKeys:        stats.TotalAPIKeys,
		ActiveAPIKeys:       stats.ActiveAPIKeys,
		TotalMonitors:       stats.TotalMonitors,
		RecentActivity:      stats.RecentActivity,
	}
	if stats.ActiveSubscription != nil {
		sub := ToSubscriptionResponses([]model.Subscription{*stats.ActiveSubscription})[0]
		resp.ActiveSubscription = &sub
	}
	return resp
}
