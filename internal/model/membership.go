package model

import "time"

type Membership struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	OrganizationID int64      `json:"organization_id"`
	Role           Role       `json:"role"`
	InvitedAt      *time.Time `json:"invited_at,omitempty"`
	JoinedAt       *time.Time `json:"joined_at,omitempty"` // nil until the invite is accepted
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (m *Membership) IsPending() bool {
	return m.JoinedAt == nil
}

// Member is a membership joined with the user it belongs to.
type Member struct {
	Membership
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
