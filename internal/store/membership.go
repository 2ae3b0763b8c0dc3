package store

import (
	"context"
	"errors"
	"fmt"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type membershipStore struct {
	queries *sqlc.Queries
}

func newMembershipStore(queries *sqlc.Queries) MembershipStore {
	return &membershipStore{queries: queries}
}

// Create fails with ErrConflict when the (user, organization) pair exists.
func (s *membershipStore) Create(ctx context.Context, m *model.Membership) error {
	row, err := s.queries.CreateMembership(ctx, sqlc.CreateMembershipParams{
		ID:             m.ID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Role:           string(m.Role),
		InvitedAt:      timestamptz(m.InvitedAt),
		JoinedAt:       timestamptz(m.JoinedAt),
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*m = *toMembershipModel(row)
	return nil
}

func (s *membershipStore) GetByID(ctx context.Context, id int64) (*model.Membership, error) {
	row, err := s.queries.GetMembership(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toMembershipModel(row), nil
}

func (s *membershipStore) GetByUserAndOrg(ctx context.Context, userID, orgID int64) (*model.Membership, error) {
	row, err := s.queries.GetMembershipByUserAndOrg(ctx, sqlc.GetMembershipByUserAndOrgParams{
		UserID:         userID,
		OrganizationID: orgID,
	})
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toMembershipModel(row), nil
}

// SetRole moves a membership from current to next in a single conditional
// UPDATE. Two concurrent changes of the same row cannot both apply: the loser
// sees zero affected rows and gets ErrStaleRole.
func (s *membershipStore) SetRole(ctx context.Context, id int64, current, next model.Role) error {
	if next == model.RoleOwner || current == model.RoleOwner {
		return ErrOwnerImmutable
	}

	n, err := s.queries.SetMembershipRole(ctx, sqlc.SetMembershipRoleParams{
		NewRole:     string(next),
		ID:          id,
		CurrentRole: string(current),
	})
	if err != nil {
		return mapWriteErr(err)
	}
	if n == 1 {
		return nil
	}
	return s.classifyMiss(ctx, id)
}

// Remove deletes a non-OWNER membership.
func (s *membershipStore) Remove(ctx context.Context, id int64) error {
	n, err := s.queries.RemoveMembership(ctx, id)
	if err != nil {
		return mapWriteErr(err)
	}
	if n == 1 {
		return nil
	}
	return s.classifyMiss(ctx, id)
}

// classifyMiss explains why a conditional write touched no rows.
func (s *membershipStore) classifyMiss(ctx context.Context, id int64) error {
	row, err := s.queries.GetMembership(ctx, id)
	if err != nil {
		return mapReadErr(err)
	}
	if model.Role(row.Role) == model.RoleOwner {
		return ErrOwnerImmutable
	}
	return ErrStaleRole
}

// MarkJoined stamps joined_at on a pending membership. A membership that is
// already joined is returned unchanged.
func (s *membershipStore) MarkJoined(ctx context.Context, id int64) (*model.Membership, error) {
	row, err := s.queries.MarkMembershipJoined(ctx, id)
	if err == nil {
		return toMembershipModel(row), nil
	}
	if err = mapReadErr(err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *membershipStore) ListByOrganization(ctx context.Context, orgID int64) ([]model.Member, error) {
	rows, err := s.queries.ListMembershipsByOrganization(ctx, orgID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.Member, 0, len(rows))
	for _, row := range rows {
		result = append(result, toMemberModel(sqlc.ListPendingMembershipsRow(row)))
	}
	return result, nil
}

func (s *membershipStore) ListPending(ctx context.Context, orgID int64) ([]model.Member, error) {
	rows, err := s.queries.ListPendingMemberships(ctx, orgID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.Member, 0, len(rows))
	for _, row := range rows {
		result = append(result, toMemberModel(row))
	}
	return result, nil
}

func (s *membershipStore) ListByUser(ctx context.Context, userID int64) ([]model.Membership, error) {
	rows, err := s.queries.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.Membership, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toMembershipModel(row))
	}
	return result, nil
}

// Upsert is the sync path. An existing OWNER keeps its role whatever the
// incoming role is, and joined_at is only ever filled, never cleared.
func (s *membershipStore) Upsert(ctx context.Context, m *model.Membership) error {
	row, err := s.queries.UpsertMembership(ctx, sqlc.UpsertMembershipParams{
		ID:             m.ID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Role:           string(m.Role),
		JoinedAt:       timestamptz(m.JoinedAt),
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*m = *toMembershipModel(row)
	return nil
}

// RemoveByUserAndOrg deletes the pair's membership unless it is the last
// OWNER. Owner rows are locked first, so callers running this inside a
// transaction cannot race another owner removal. Returns false when there
// was nothing to delete.
func (s *membershipStore) RemoveByUserAndOrg(ctx context.Context, userID, orgID int64) (bool, error) {
	existing, err := s.GetByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if existing.Role == model.RoleOwner {
		owners, err := s.queries.LockOrganizationOwners(ctx, orgID)
		if err != nil {
			return false, fmt.Errorf("locking owners: %w", mapReadErr(err))
		}
		if len(owners) <= 1 {
			return false, ErrLastOwner
		}
	}

	n, err := s.queries.DeleteMembershipByUserAndOrg(ctx, sqlc.DeleteMembershipByUserAndOrgParams{
		UserID:         userID,
		OrganizationID: orgID,
	})
	if err != nil {
		return false, mapWriteErr(err)
	}
	return n > 0, nil
}

func (s *membershipStore) CountOwners(ctx context.Context, orgID int64) (int64, error) {
	n, err := s.queries.CountOrganizationOwners(ctx, orgID)
	if err != nil {
		return 0, mapReadErr(err)
	}
	return n, nil
}

func (s *membershipStore) ListOwnedOrganizationIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.queries.ListOwnedOrganizationIDs(ctx, userID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return ids, nil
}

func toMembershipModel(row sqlc.Membership) *model.Membership {
	return &model.Membership{
		ID:             row.ID,
		UserID:         row.UserID,
		OrganizationID: row.OrganizationID,
		Role:           model.Role(row.Role),
		InvitedAt:      timePtr(row.InvitedAt),
		JoinedAt:       timePtr(row.JoinedAt),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

func toMemberModel(row sqlc.ListPendingMembershipsRow) model.Member {
	return model.Member{
		Membership: model.Membership{
			ID:             row.ID,
			UserID:         row.UserID,
			OrganizationID: row.OrganizationID,
			Role:           model.Role(row.Role),
			InvitedAt:      timePtr(row.InvitedAt),
			JoinedAt:       timePtr(row.JoinedAt),
			CreatedAt:      row.CreatedAt.Time,
			UpdatedAt:      row.UpdatedAt.Time,
		},
		Email:     row.Email,
		Name:      row.Name,
		AvatarURL: row.AvatarUrl,
	}
}
