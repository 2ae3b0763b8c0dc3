package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type invitationStore struct {
	queries *sqlc.Queries
}

func newInvitationStore(queries *sqlc.Queries) InvitationStore {
	return &invitationStore{queries: queries}
}

func (s *invitationStore) Create(ctx context.Context, inv *model.Invitation) error {
	row, err := s.queries.CreateInvitation(ctx, sqlc.CreateInvitationParams{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		Email:          inv.Email,
		Role:           string(inv.Role),
		Token:          inv.Token,
		Status:         string(inv.Status),
		InvitedBy:      inv.InvitedBy,
		ExpiresAt:      pgtype.Timestamptz{Time: inv.ExpiresAt, Valid: true},
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*inv = *toInvitationModel(row)
	return nil
}

func (s *invitationStore) GetByID(ctx context.Context, id int64) (*model.Invitation, error) {
	row, err := s.queries.GetInvitationByID(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	row, err := s.queries.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) GetPendingByEmail(ctx context.Context, orgID int64, email string) (*model.Invitation, error) {
	row, err := s.queries.GetPendingInvitationByEmail(ctx, sqlc.GetPendingInvitationByEmailParams{
		OrganizationID: orgID,
		Email:          email,
	})
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) ListPending(ctx context.Context, orgID int64) ([]model.Invitation, error) {
	rows, err := s.queries.ListPendingInvitationsByOrganization(ctx, orgID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toInvitationModels(rows), nil
}

// Accept only transitions pending invitations; anything else is ErrNotFound.
func (s *invitationStore) Accept(ctx context.Context, id int64, userID int64) (*model.Invitation, error) {
	row, err := s.queries.AcceptInvitation(ctx, sqlc.AcceptInvitationParams{
		ID:         id,
		AcceptedBy: &userID,
	})
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) Revoke(ctx context.Context, id int64) (*model.Invitation, error) {
	row, err := s.queries.RevokeInvitation(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) ExpireOld(ctx context.Context) error {
	return mapWriteErr(s.queries.ExpireOldInvitations(ctx))
}

func toInvitationModel(row sqlc.Invitation) *model.Invitation {
	return &model.Invitation{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Email:          row.Email,
		Role:           model.Role(row.Role),
		Token:          row.Token,
		Status:         model.InvitationStatus(row.Status),
		InvitedBy:      row.InvitedBy,
		AcceptedBy:     row.AcceptedBy,
		ExpiresAt:      row.ExpiresAt.Time,
		CreatedAt:      row.CreatedAt.Time,
		AcceptedAt:     timePtr(row.AcceptedAt),
	}
}

func toInvitationModels(rows []sqlc.Invitation) []model.Invitation {
	result := make([]model.Invitation, len(rows))
	for i, row := range rows {
		result[i] = *toInvitationModel(row)
	}
	return result
}
