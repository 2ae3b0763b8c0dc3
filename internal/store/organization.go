package store

import (
	"context"
	"encoding/json"
	"time"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type organizationStore struct {
	queries *sqlc.Queries
}

func newOrganizationStore(queries *sqlc.Queries) OrganizationStore {
	return &organizationStore{queries: queries}
}

func (s *organizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	row, err := s.queries.GetOrganization(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toOrganizationModel(row), nil
}

// GetByName returns the oldest organization with that name.
func (s *organizationStore) GetByName(ctx context.Context, name string) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationByName(ctx, name)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) GetByExternalID(ctx context.Context, externalID string) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationByExternalID(ctx, externalID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) Create(ctx context.Context, org *model.Organization) error {
	row, err := s.queries.CreateOrganization(ctx, sqlc.CreateOrganizationParams{
		ID:          org.ID,
		ExternalID:  org.ExternalID,
		Slug:        org.Slug,
		Name:        org.Name,
		Description: org.Description,
		Settings:    settingsBytes(org.Settings),
		AvatarUrl:   org.AvatarURL,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*org = *toOrganizationModel(row)
	return nil
}

// Update writes the mutable fields. The slug is never updated.
func (s *organizationStore) Update(ctx context.Context, org *model.Organization) error {
	row, err := s.queries.UpdateOrganization(ctx, sqlc.UpdateOrganizationParams{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		Settings:    settingsBytes(org.Settings),
		AvatarUrl:   org.AvatarURL,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*org = *toOrganizationModel(row)
	return nil
}

func (s *organizationStore) UpsertBySlug(ctx context.Context, org *model.Organization) error {
	row, err := s.queries.UpsertOrganizationBySlug(ctx, sqlc.UpsertOrganizationBySlugParams{
		ID:         org.ID,
		ExternalID: org.ExternalID,
		Slug:       org.Slug,
		Name:       org.Name,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*org = *toOrganizationModel(row)
	return nil
}

// Sync applies provider-owned fields. A nil externalID keeps the stored one.
func (s *organizationStore) Sync(ctx context.Context, id int64, name string, externalID *string) (*model.Organization, error) {
	row, err := s.queries.SyncOrganization(ctx, sqlc.SyncOrganizationParams{
		ID:         id,
		Name:       name,
		ExternalID: externalID,
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteOrganization(ctx, id)
	if err != nil {
		return mapWriteErr(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns organizations the user has joined.
func (s *organizationStore) ListByUser(ctx context.Context, userID int64) ([]model.Organization, error) {
	rows, err := s.queries.ListOrganizationsByUser(ctx, userID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.Organization, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toOrganizationModel(row))
	}
	return result, nil
}

// Stats counts members joined since membersSince and audit entries since
// activitySince alongside the totals. The subscription is left to the caller.
func (s *organizationStore) Stats(ctx context.Context, orgID int64, membersSince, activitySince time.Time) (*model.OrganizationStats, error) {
	row, err := s.queries.GetOrganizationStats(ctx, sqlc.GetOrganizationStatsParams{
		OrganizationID: orgID,
		MembersSince:   timestamptz(&membersSince),
		ActivitySince:  timestamptz(&activitySince),
	})
	if err != nil {
		return nil, mapReadErr(err)
	}
	return &model.OrganizationStats{
		TotalMembers:        row.TotalMembers,
		PendingMembers:      row.PendingMembers,
		NewMembersThisMonth: row.NewMembers,
		TotalAPIKeys:        row.TotalApiKeys,
		ActiveAPIKeys:       row.ActiveApiKeys,
		TotalMonitors:       row.TotalMonitors,
		RecentActivity:      row.RecentActivity,
	}, nil
}

func settingsBytes(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return raw
}

func toOrganizationModel(row sqlc.Organization) *model.Organization {
	return &model.Organization{
		ID:          row.ID,
		ExternalID:  row.ExternalID,
		Slug:        row.Slug,
		Name:        row.Name,
		Description: row.Description,
		Settings:    json.RawMessage(row.Settings),
		AvatarURL:   row.AvatarUrl,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
