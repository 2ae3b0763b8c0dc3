package dto

import (
	"time"

	"tenantkit.dev/api/internal/model"
)

type InvitationResponse struct {
	ID             int64                  `json:"id,string"`
	OrganizationID int64                  `json:"organization_id,string"`
	Email          string                 `json:"email"`
	Role           model.Role             `json:"role"`
	Status         model.InvitationStatus `json:"status"`
	ExpiresAt      string                 `json:"expires_at"`
	CreatedAt      string                 `json:"created_at"`
	AcceptedAt     *string                `json:"accepted_at,omitempty"`
}

// ValidateInvitationResponse is public, so it carries no ids.
type ValidateInvitationResponse struct {
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	ExpiresAt string     `json:"expires_at"`
	Valid     bool       `json:"valid"`
}

func ToInvitationResponse(inv *model.Invitation) *InvitationResponse {
	resp := &InvitationResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		Email:          inv.Email,
		Role:           inv.Role,
		Status:         inv.Status,
		ExpiresAt:      inv.ExpiresAt.Format(time.RFC3339),
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.AcceptedAt != nil {
		acceptedAt := inv.AcceptedAt.Format(time.RFC3339)
		resp.AcceptedAt = &acceptedAt
	}
	return resp
}

func ToInvitationResponses(invitations []model.Invitation) []*InvitationResponse {
	resp := make([]*InvitationResponse, len(invitations))
	for i := range invitations {
		resp[i] = ToInvitationResponse(&invitations[i])
	}
	return resp
}
