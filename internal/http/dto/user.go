package dto

import (
	"time"

	"tenantkit.dev/api/internal/model"
)

// UserResponse is the signed-in user as returned by /auth/me.
type UserResponse struct {
	ID        int64     `json:"id,string"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Initials  string    `json:"initials"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Initials:  u.Initials(),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// DeleteAccountRequest must carry the literal confirmation "DELETE".
type DeleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}
