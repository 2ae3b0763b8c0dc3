package store

import (
	"context"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type subscriptionStore struct {
	queries *sqlc.Queries
}

func newSubscriptionStore(queries *sqlc.Queries) SubscriptionStore {
	return &subscriptionStore{queries: queries}
}

func (s *subscriptionStore) ListByOrganization(ctx context.Context, orgID int64) ([]model.Subscription, error) {
	rows, err := s.queries.ListSubscriptionsByOrganization(ctx, orgID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.Subscription, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.Subscription{
			ID:                row.ID,
			OrganizationID:    row.OrganizationID,
			Plan:              row.Plan,
			Status:            model.SubscriptionStatus(row.Status),
			CurrentPeriodEnd:  timePtr(row.CurrentPeriodEnd),
			CancelAtPeriodEnd: row.CancelAtPeriodEnd,
			CreatedAt:         row.CreatedAt.Time,
			UpdatedAt:         row.UpdatedAt.Time,
		})
	}
	return result, nil
}

func (s *subscriptionStore) CountActive(ctx context.Context, orgID int64) (int64, error) {
	n, err := s.queries.CountActiveSubscriptions(ctx, orgID)
	if err != nil {
		return 0, mapReadErr(err)
	}
	return n, nil
}
