package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type sessionStore struct {
	queries *sqlc.Queries
}

func newSessionStore(queries *sqlc.Queries) SessionStore {
	return &sessionStore{queries: queries}
}

func (s *sessionStore) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	row, err := s.queries.GetSession(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toSessionModel(row), nil
}

func (s *sessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	row, err := s.queries.GetValidSession(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toSessionModel(row), nil
}

func (s *sessionStore) Create(ctx context.Context, session *model.Session) error {
	row, err := s.queries.CreateSession(ctx, sqlc.CreateSessionParams{
		ID:              session.ID,
		UserID:          session.UserID,
		WorkosSessionID: session.WorkOSSessionID,
		ExpiresAt:       pgtype.Timestamptz{Time: session.ExpiresAt, Valid: true},
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*session = *toSessionModel(row)
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, id int64) error {
	return mapWriteErr(s.queries.DeleteSession(ctx, id))
}

func (s *sessionStore) DeleteByUser(ctx context.Context, userID int64) error {
	return mapWriteErr(s.queries.DeleteSessionsByUser(ctx, userID))
}

func (s *sessionStore) DeleteExpired(ctx context.Context) error {
	return mapWriteErr(s.queries.DeleteExpiredSessions(ctx))
}

func toSessionModel(row sqlc.Session) *model.Session {
	return &model.Session{
		ID:              row.ID,
		UserID:          row.UserID,
		WorkOSSessionID: row.WorkosSessionID,
		ExpiresAt:       row.ExpiresAt.Time,
		CreatedAt:       row.CreatedAt.Time,
	}
}
