package model

import (
	"encoding/json"
	"time"
)

// IdentityEvent records one webhook delivery from the identity provider.
// DeliveryID is the provider's message id and deduplicates retries.
type IdentityEvent struct {
	ID          int64           `json:"id"`
	DeliveryID  string          `json:"delivery_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (e *IdentityEvent) IsProcessed() bool {
	return e.ProcessedAt != nil
}
