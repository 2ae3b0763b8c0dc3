package dto

import (
	"encoding/json"
	"strconv"
	"time"

	"tenantkit.dev/api/internal/model"
)

type AuditLogResponse struct {
	ID           int64              `json:"id,string"`
	UserID       *string            `json:"user_id"`
	Action       model.AuditAction  `json:"action"`
	ResourceType model.ResourceType `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	Metadata     json.RawMessage    `json:"metadata,omitempty"`
	IPAddress    *string            `json:"ip_address,omitempty"`
	UserAgent    *string            `json:"user_agent,omitempty"`
	RequestID    *string            `json:"request_id,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// AuditLogPageResponse pages backwards. NextBefore is empty on the last page.
type AuditLogPageResponse struct {
	Entries    []AuditLogResponse `json:"entries"`
	NextBefore string             `json:"next_before,omitempty"`
}

func ToAuditLogPageResponse(entries []model.AuditLog, nextBefore int64) AuditLogPageResponse {
	resp := AuditLogPageResponse{Entries: make([]AuditLogResponse, len(entries))}
	for i, e := range entries {
		item := AuditLogResponse{
			ID:           e.ID,
			Action:       e.Action,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			Metadata:     e.Metadata,
			IPAddress:    e.IPAddress,
			UserAgent:    e.UserAgent,
			RequestID:    e.RequestID,
			CreatedAt:    e.CreatedAt,
		}
		if e.UserID != nil {
			uid := strconv.FormatInt(*e.UserID, 10)
			item.UserID = &uid
		}
		resp.Entries[i] = item
	}
	if nextBefore > 0 {
		resp.NextBefore = strconv.FormatInt(nextBefore, 10)
	}
	return resp
}
