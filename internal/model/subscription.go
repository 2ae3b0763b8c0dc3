package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive     SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCanceled   SubscriptionStatus = "CANCELED"
	SubscriptionStatusPastDue    SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusTrialing   SubscriptionStatus = "TRIALING"
	SubscriptionStatusIncomplete SubscriptionStatus = "INCOMPLETE"
)

type Subscription struct {
	ID                int64              `json:"id"`
	OrganizationID    int64              `json:"organization_id"`
	Plan              string             `json:"plan"`
	Status            SubscriptionStatus `json:"status"`
	CurrentPeriodEnd  *time.Time         `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool               `json:"cancel_at_period_end"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
