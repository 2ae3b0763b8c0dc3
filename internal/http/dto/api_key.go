package dto

import (
	"time"

	"tenantkit.dev/api/internal/model"
)

type CreateAPIKeyRequest struct {
	Name                   string             `json:"name" binding:"required"`
	Permissions            []model.Permission `json:"permissions" binding:"required"`
	RateLimit              *int               `json:"rate_limit,omitempty"`
	RateLimitWindowSeconds *int               `json:"rate_limit_window_seconds,omitempty"`
	ExpiresAt              *time.Time         `json:"expires_at,omitempty"`
}

type APIKeyResponse struct {
	ID                     int64              `json:"id,string"`
	OrganizationID         int64              `json:"organization_id,string"`
	Name                   string             `json:"name"`
	KeyPrefix              string             `json:"key_prefix"`
	Permissions            []model.Permission `json:"permissions"`
	RateLimit              int                `json:"rate_limit"`
	RateLimitWindowSeconds int                `json:"rate_limit_window_seconds"`
	IsActive               bool               `json:"is_active"`
	ExpiresAt              *time.Time         `json:"expires_at,omitempty"`
	LastUsedAt             *time.Time         `json:"last_used_at,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
}

// CreatedAPIKeyResponse is the only response that ever carries the secret.
type CreatedAPIKeyResponse struct {
	APIKeyResponse
	Key string `json:"key"`
}

func ToAPIKeyResponse(k *model.APIKey) *APIKeyResponse {
	return &APIKeyResponse{
		ID:                     k.ID,
		OrganizationID:         k.OrganizationID,
		Name:                   k.Name,
		KeyPrefix:              k.KeyPrefix,
		Permissions:            k.Permissions,
		RateLimit:              k.RateLimit,
		RateLimitWindowSeconds: int(k.RateLimitWindow / time.Second),
		IsActive:               k.IsActive,
		ExpiresAt:              k.ExpiresAt,
		LastUsedAt:             k.LastUsedAt,
		CreatedAt:              k.CreatedAt,
	}
}

func ToAPIKeyResponses(keys []model.APIKey) []*APIKeyResponse {
	resp := make([]*APIKeyResponse, len(keys))
	for i := range keys {
		resp[i] = ToAPIKeyResponse(&keys[i])
	}
	return resp
}
