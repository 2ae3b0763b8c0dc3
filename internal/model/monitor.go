package model

import "time"

type Monitor struct {
	ID              int64             `json:"id"`
	OrganizationID  int64             `json:"organization_id"`
	Name            string            `json:"name"`
	URL             string            `json:"url"`
	Method          string            `json:"method"`
	Headers         map[string]string `json:"headers,omitempty"`
	ExpectedStatus  int               `json:"expected_status"`
	TimeoutSeconds  int               `json:"timeout_seconds"`
	IntervalSeconds int               `json:"interval_seconds"`
	IsActive        bool              `json:"is_active"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
