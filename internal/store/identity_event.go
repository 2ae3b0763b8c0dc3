package store

import (
	"context"
	"encoding/json"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type identityEventStore struct {
	queries *sqlc.Queries
}

func newIdentityEventStore(queries *sqlc.Queries) IdentityEventStore {
	return &identityEventStore{queries: queries}
}

// CreateOrGet records a delivery. The bool is false when the delivery id was
// already stored, in which case the existing row is returned.
func (s *identityEventStore) CreateOrGet(ctx context.Context, event *model.IdentityEvent) (*model.IdentityEvent, bool, error) {
	row, err := s.queries.UpsertIdentityEvent(ctx, sqlc.UpsertIdentityEventParams{
		ID:         event.ID,
		DeliveryID: event.DeliveryID,
		EventType:  event.EventType,
		Payload:    []byte(event.Payload),
	})
	if err != nil {
		return nil, false, mapWriteErr(err)
	}
	created := row.ID == event.ID
	return toIdentityEventModel(row), created, nil
}

func (s *identityEventStore) MarkProcessed(ctx context.Context, id int64) error {
	return mapWriteErr(s.queries.MarkIdentityEventProcessed(ctx, id))
}

func (s *identityEventStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	return mapWriteErr(s.queries.MarkIdentityEventFailed(ctx, sqlc.MarkIdentityEventFailedParams{
		ID:    id,
		Error: &errMsg,
	}))
}

func toIdentityEventModel(row sqlc.IdentityEvent) *model.IdentityEvent {
	return &model.IdentityEvent{
		ID:          row.ID,
		DeliveryID:  row.DeliveryID,
		EventType:   row.EventType,
		Payload:     json.RawMessage(row.Payload),
		ProcessedAt: timePtr(row.ProcessedAt),
		Error:       row.Error,
		CreatedAt:   row.CreatedAt.Time,
	}
}
