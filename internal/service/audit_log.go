package service

import (
	"context"
	"fmt"

	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

const (
	DefaultAuditPageSize = 50
	MaxAuditPageSize     = 100
)

type AuditLogPage struct {
	Entries []model.AuditLog
	// NextBefore is the cursor for the following page, 0 when exhausted.
	NextBefore int64
}

type AuditLogService interface {
	List(ctx context.Context, actorID, orgID, before int64, limit int) (*AuditLogPage, error)
}

type auditLogService struct {
	logs  store.AuditLogStore
	guard authz.Authorizer
}

func NewAuditLogService(logs store.AuditLogStore, guard authz.Authorizer) AuditLogService {
	return &auditLogService{logs: logs, guard: guard}
}

// List pages newest first. before is the id of the last entry already seen.
func (s *auditLogService) List(ctx context.Context, actorID, orgID, before int64, limit int) (*AuditLogPage, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermAuditLogsRead); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultAuditPageSize
	}
	if limit > MaxAuditPageSize {
		limit = MaxAuditPageSize
	}

	entries, err := s.logs.ListByOrganization(ctx, orgID, before, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("listing audit logs: %w", err)
	}

	page := &AuditLogPage{Entries: entries}
	if len(entries) == limit {
		page.NextBefore = entries[len(entries)-1].ID
	}
	return page, nil
}
