package dto

import (
	"time"

	"tenantkit.dev/api/internal/model"
)

// MonitorRequest is used for both create and update. On update absent
// fields keep their stored value.
type MonitorRequest struct {
	Name            *string           `json:"name,omitempty"`
	URL             *string           `json:"url,omitempty"`
	Method          *string           `json:"method,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	ExpectedStatus  *int              `json:"expected_status,omitempty"`
	TimeoutSeconds  *int              `json:"timeout_seconds,omitempty"`
	IntervalSeconds *int              `json:"interval_seconds,omitempty"`
	IsActive        *bool             `json:"is_active,omitempty"`
}

type MonitorResponse struct {
	ID              int64             `json:"id,string"`
	OrganizationID  int64             `json:"organization_id,string"`
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

func ToMonitorResponse(m *model.Monitor) *MonitorResponse {
	return &MonitorResponse{
		ID:              m.ID,
		OrganizationID:  m.OrganizationID,
		Name:            m.Name,
		URL:             m.URL,
		Method:          m.Method,
		Headers:         m.Headers,
		ExpectedStatus:  m.ExpectedStatus,
		TimeoutSeconds:  m.TimeoutSeconds,
		IntervalSeconds: m.IntervalSeconds,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToMonitorResponses(monitors []model.Monitor) []*MonitorResponse {
	resp := make([]*MonitorResponse, len(monitors))
	for i := range monitors {
		resp[i] = ToMonitorResponse(&monitors[i])
	}
	return resp
}
