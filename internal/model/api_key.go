package model

import "time"

type APIKey struct {
	ID              int64         `json:"id"`
	OrganizationID  int64         `json:"organization_id"`
	UserID          int64         `json:"user_id"`
	Name            string        `json:"name"`
	KeyPrefix       string        `json:"key_prefix"`
	KeyHash         string        `json:"-"` // sha256 hex of the secret
	Permissions     []Permission  `json:"permissions"`
	RateLimit       int           `json:"rate_limit"`
	RateLimitWindow time.Duration `json:"-"`
	IsActive        bool          `json:"is_active"`
	ExpiresAt       *time.Time    `json:"expires_at,omitempty"`
	LastUsedAt      *time.Time    `json:"last_used_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}

func (k *APIKey) HasPermission(p Permission) bool {
	for _, granted := range k.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}
