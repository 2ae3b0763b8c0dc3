package dto

import (
	"time"

	"tenantkit.dev/api/internal/model"
)

type SubscriptionResponse struct {
	ID                int64                    `json:"id,string"`
	Plan              string                   `json:"plan"`
	Status            model.SubscriptionStatus `json:"status"`
	CurrentPeriodEnd  *time.Time               `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool                     `json:"cancel_at_period_end"`
	CreatedAt         time.Time                `json:"created_at"`
}

func ToSubscriptionResponses(subs []model.Subscription) []SubscriptionResponse {
	resp := make([]SubscriptionResponse, len(subs))
	for i, s := range subs {
		resp[i] = SubscriptionResponse{
			ID:                s.ID,
			Plan:              s.Plan,
			Status:            s.Status,
			CurrentPeriodEnd:  s.CurrentPeriodEnd,
			CancelAtPeriodEnd: s.CancelAtPeriodEnd,
			CreatedAt:         s.CreatedAt,
		}
	}
	return resp
}
