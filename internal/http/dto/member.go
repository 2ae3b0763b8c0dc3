package dto

import (
	"time"

	"tenantkit.dev/api/internal/model"
)

type InviteMemberRequest struct {
	Email string     `json:"email" binding:"required"`
	Role  model.Role `json:"role" binding:"required"`
}

type UpdateRoleRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

type MembershipResponse struct {
	ID             int64      `json:"id,string"`
	UserID         int64      `json:"user_id,string"`
	OrganizationID int64      `json:"organization_id,string"`
	Role           model.Role `json:"role"`
	InvitedAt      *time.Time `json:"invited_at,omitempty"`
	JoinedAt       *time.Time `json:"joined_at,omitempty"`
	Pending        bool       `json:"pending"`
	CreatedAt      time.Time  `json:"created_at"`
}

type MemberResponse struct {
	MembershipResponse
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// InviteResponse holds exactly one of Membership or Invitation.
type InviteResponse struct {
	Membership *MembershipResponse `json:"membership,omitempty"`
	Invitation *InvitationResponse `json:"invitation,omitempty"`
	InviteURL  string              `json:"invite_url,omitempty"`
}

func ToMembershipResponse(m *model.Membership) *MembershipResponse {
	return &MembershipResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Role:           m.Role,
		InvitedAt:      m.InvitedAt,
		JoinedAt:       m.JoinedAt,
		Pending:        m.IsPending(),
		CreatedAt:      m.CreatedAt,
	}
}

func ToMemberResponses(members []model.Member) []MemberResponse {
	resp := make([]MemberResponse, len(members))
	for i := range members {
		resp[i] = MemberResponse{
			MembershipResponse: *ToMembershipResponse(&members[i].Membership),
			Email:              members[i].Email,
			Name:               members[i].Name,
			AvatarURL:          members[i].AvatarURL,
		}
	}
	return resp
}
