package model

import (
	"strings"
	"time"
)

// User is an identity mirrored from the identity provider. WorkOSID is the
// stable external key; rows are created on first sign-in or on a sync event.
type User struct {
	ID        int64     `json:"id"`
	WorkOSID  *string   `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name"` // display name, derived from the parts at write time
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Initials is what the dashboard shows when there is no avatar.
func (u *User) Initials() string {
	var b strings.Builder
	for _, part := range []string{u.FirstName, u.LastName} {
		if r := []rune(strings.TrimSpace(part)); len(r) > 0 {
			b.WriteString(strings.ToUpper(string(r[0])))
		}
	}
	if b.Len() == 0 && u.Email != "" {
		b.WriteString(strings.ToUpper(u.Email[:1]))
	}
	return b.String()
}
