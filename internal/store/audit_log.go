package store

import (
	"context"
	"encoding/json"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type auditLogStore struct {
	queries *sqlc.Queries
}

func newAuditLogStore(queries *sqlc.Queries) AuditLogStore {
	return &auditLogStore{queries: queries}
}

func (s *auditLogStore) Create(ctx context.Context, entry *model.AuditLog) error {
	metadata := []byte(entry.Metadata)
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	err := s.queries.CreateAuditLog(ctx, sqlc.CreateAuditLogParams{
		ID:             entry.ID,
		OrganizationID: entry.OrganizationID,
		UserID:         entry.UserID,
		Action:         string(entry.Action),
		ResourceType:   string(entry.ResourceType),
		ResourceID:     entry.ResourceID,
		Metadata:       metadata,
		IpAddress:      entry.IPAddress,
		UserAgent:      entry.UserAgent,
		RequestID:      entry.RequestID,
	})
	return mapWriteErr(err)
}

// ListByOrganization pages newest first. beforeID of 0 starts at the newest entry.
func (s *auditLogStore) ListByOrganization(ctx context.Context, orgID int64, beforeID int64, limit int32) ([]model.AuditLog, error) {
	rows, err := s.queries.ListAuditLogsByOrganization(ctx, sqlc.ListAuditLogsByOrganizationParams{
		OrganizationID: orgID,
		BeforeID:       beforeID,
		RowLimit:       limit,
	})
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.AuditLog, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.AuditLog{
			ID:             row.ID,
			OrganizationID: row.OrganizationID,
			UserID:         row.UserID,
			Action:         model.AuditAction(row.Action),
			ResourceType:   model.ResourceType(row.ResourceType),
			ResourceID:     row.ResourceID,
			Metadata:       json.RawMessage(row.Metadata),
			IPAddress:      row.IpAddress,
			UserAgent:      row.UserAgent,
			RequestID:      row.RequestID,
			CreatedAt:      row.CreatedAt.Time,
		})
	}
	return result, nil
}
