package store

import (
	"context"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type userStore struct {
	queries *sqlc.Queries
}

func newUserStore(queries *sqlc.Queries) UserStore {
	return &userStore{queries: queries}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) GetByWorkOSID(ctx context.Context, workosID string) (*model.User, error) {
	row, err := s.queries.GetUserByWorkOSID(ctx, workosID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toUserModel(row), nil
}

// UpsertByWorkOSID inserts or refreshes the profile for user.WorkOSID.
// On update the existing id is kept and written back into user.
func (s *userStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	row, err := s.queries.UpsertUserByWorkOSID(ctx, sqlc.UpsertUserByWorkOSIDParams{
		ID:        user.ID,
		WorkosID:  user.WorkOSID,
		Email:     user.Email,
		Name:      user.Name,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarUrl: user.AvatarURL,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*user = *toUserModel(row)
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	row, err := s.queries.UpdateUser(ctx, sqlc.UpdateUserParams{
		ID:        user.ID,
		Name:      user.Name,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarUrl: user.AvatarURL,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*user = *toUserModel(row)
	return nil
}

// DeleteByWorkOSID hard-deletes the user. Memberships and sessions cascade.
func (s *userStore) DeleteByWorkOSID(ctx context.Context, workosID string) (int64, error) {
	id, err := s.queries.DeleteUserByWorkOSID(ctx, workosID)
	if err != nil {
		return 0, mapReadErr(err)
	}
	return id, nil
}

func toUserModel(row sqlc.User) *model.User {
	return &model.User{
		ID:        row.ID,
		WorkOSID:  row.WorkosID,
		Name:      row.Name,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		AvatarURL: row.AvatarUrl,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
