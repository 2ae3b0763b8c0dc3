package store

import (
	"context"
	"time"

	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/model"
)

type apiKeyStore struct {
	queries *sqlc.Queries
}

func newAPIKeyStore(queries *sqlc.Queries) APIKeyStore {
	return &apiKeyStore{queries: queries}
}

func (s *apiKeyStore) Create(ctx context.Context, key *model.APIKey) error {
	perms := make([]string, len(key.Permissions))
	for i, p := range key.Permissions {
		perms[i] = string(p)
	}

	row, err := s.queries.CreateAPIKey(ctx, sqlc.CreateAPIKeyParams{
		ID:                     key.ID,
		OrganizationID:         key.OrganizationID,
		UserID:                 key.UserID,
		Name:                   key.Name,
		KeyPrefix:              key.KeyPrefix,
		KeyHash:                key.KeyHash,
		Permissions:            perms,
		RateLimit:              int32(key.RateLimit),
		RateLimitWindowSeconds: int32(key.RateLimitWindow / time.Second),
		ExpiresAt:              timestamptz(key.ExpiresAt),
	})
	if err != nil {
		return mapWriteErr(err)
	}
	*key = *toAPIKeyModel(row)
	return nil
}

func (s *apiKeyStore) GetByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	row, err := s.queries.GetAPIKeyByHash(ctx, hash)
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toAPIKeyModel(row), nil
}

func (s *apiKeyStore) ListByOrganization(ctx context.Context, orgID int64) ([]model.APIKey, error) {
	rows, err := s.queries.ListAPIKeysByOrganization(ctx, orgID)
	if err != nil {
		return nil, mapReadErr(err)
	}
	result := make([]model.APIKey, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toAPIKeyModel(row))
	}
	return result, nil
}

func (s *apiKeyStore) Revoke(ctx context.Context, orgID, id int64) (*model.APIKey, error) {
	row, err := s.queries.RevokeAPIKey(ctx, sqlc.RevokeAPIKeyParams{
		ID:             id,
		OrganizationID: orgID,
	})
	if err != nil {
		return nil, mapReadErr(err)
	}
	return toAPIKeyModel(row), nil
}

func (s *apiKeyStore) TouchLastUsed(ctx context.Context, id int64) error {
	return mapWriteErr(s.queries.TouchAPIKeyLastUsed(ctx, id))
}

// DeactivateByUser turns off every key the user created, in all organizations.
func (s *apiKeyStore) DeactivateByUser(ctx context.Context, userID int64) (int64, error) {
	n, err := s.queries.DeactivateAPIKeysByUser(ctx, userID)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return n, nil
}

func toAPIKeyModel(row sqlc.ApiKey) *model.APIKey {
	perms := make([]model.Permission, len(row.Permissions))
	for i, p := range row.Permissions {
		perms[i] = model.Permission(p)
	}
	return &model.APIKey{
		ID:              row.ID,
		OrganizationID:  row.OrganizationID,
		UserID:          row.UserID,
		Name:            row.Name,
		KeyPrefix:       row.KeyPrefix,
		KeyHash:         row.KeyHash,
		Permissions:     perms,
		RateLimit:       int(row.RateLimit),
		RateLimitWindow: time.Duration(row.RateLimitWindowSeconds) * time.Second,
		IsActive:        row.IsActive,
		ExpiresAt:       timePtr(row.ExpiresAt),
		LastUsedAt:      timePtr(row.LastUsedAt),
		CreatedAt:       row.CreatedAt.Time,
	}
}
