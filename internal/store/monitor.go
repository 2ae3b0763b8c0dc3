package store

import (
	"context"
	"encoding/json"
	"fmt"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type monitorStore struct {
	queries *sqlc.Queries
}

func newMonitorStore(queries *sqlc.Queries) MonitorStore {
	return &monitorStore{queries: queries}
}

func (s *monitorStore) Create(ctx context.Context, m *model.Monitor) error {
	headers, err := marshalHeaders(m.Headers)
	if err != nil {
		return err
	}
	row, err := s.queries.CreateMonitor(ctx, sqlc.CreateMonitorParams{
		ID:              m.ID,
		OrganizationID:  m.OrganizationID,
		Name:            m.Name,
		Url:             m.URL,
		Method:          m.Method,
		Headers:         headers,
		ExpectedStatus:  int32(m.ExpectedStatus),
		TimeoutSeconds:  int32(m.TimeoutSeconds),
		IntervalSeconds: int32(m.IntervalSeconds),
		IsActive:        m.IsActive,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*m = *toMonitorModel(row)
	return nil
}

func (s *monitorStore) GetByID(ctx context.Context, orgID, id int64) (*model.Monitor, error) {
	row, err := s.queries.GetMonitor(ctx, sqlc.GetMonitorParams{ID: id, OrganizationID: orgID})
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toMonitorModel(row), nil
}

func (s *monitorStore) ListByOrganization(ctx context.Context, orgID int64) ([]model.Monitor, error) {
	rows, err := s.queries.ListMonitorsByOrganization(ctx, orgID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.Monitor, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toMonitorModel(row))
	}
	return result, nil
}

func (s *monitorStore) Update(ctx context.Context, m *model.Monitor) error {
	headers, err := marshalHeaders(m.Headers)
	if err != nil {
		return err
	}
	row, err := s.queries.UpdateMonitor(ctx, sqlc.UpdateMonitorParams{
		ID:              m.ID,
		OrganizationID:  m.OrganizationID,
		Name:            m.Name,
		Url:             m.URL,
		Method:          m.Method,
		Headers:         headers,
		ExpectedStatus:  int32(m.ExpectedStatus),
		TimeoutSeconds:  int32(m.TimeoutSeconds),
		IntervalSeconds: int32(m.IntervalSeconds),
		IsActive:        m.IsActive,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*m = *toMonitorModel(row)
	return nil
}

func (s *monitorStore) Delete(ctx context.Context, orgID, id int64) error {
	n, err := s.queries.DeleteMonitor(ctx, sqlc.DeleteMonitorParams{ID: id, OrganizationID: orgID})
	if err != nil {
		return mapWriteErr(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalHeaders(h map[string]string) ([]byte, error) {
	if len(h) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encoding monitor headers: %w", err)
	}
	return b, nil
}

func toMonitorModel(row sqlc.Monitor) *model.Monitor {
	var headers map[string]string
	// Rows are written through marshalHeaders, so a decode failure means
	// hand-edited data; it is dropped rather than failing the read.
	_ = json.Unmarshal(row.Headers, &headers)

	return &model.Monitor{
		ID:              row.ID,
		OrganizationID:  row.OrganizationID,
		Name:            row.Name,
		URL:             row.Url,
		Method:          row.Method,
		Headers:         headers,
		ExpectedStatus:  int(row.ExpectedStatus),
		TimeoutSeconds:  int(row.TimeoutSeconds),
		IntervalSeconds: int(row.IntervalSeconds),
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
