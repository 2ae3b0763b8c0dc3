package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/core/config"
	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

const (
	APIKeyPrefix    = "tk_"
	apiKeySecretLen = 32
	apiKeyPrefixLen = 8
	maxAPIKeyName   = 100
	maxRateLimit    = 1_000_000
)

// ErrInvalidAPIKey is the only error Authenticate reports for a bad key,
// whether it is unknown, revoked or expired.
var ErrInvalidAPIKey = fmt.Errorf("%w: invalid api key", domain.ErrUnauthorized)

type CreateAPIKeyParams struct {
	Name            string
	Permissions     []model.Permission
	RateLimit       *int
	RateLimitWindow *time.Duration
	ExpiresAt       *time.Time
}

// CreatedAPIKey carries the plaintext secret. It is never retrievable again.
type CreatedAPIKey struct {
	Key    *model.APIKey
	Secret string
}

type APIKeyService interface {
	Create(ctx context.Context, actorID, orgID int64, params CreateAPIKeyParams) (*CreatedAPIKey, error)
	List(ctx context.Context, actorID, orgID int64) ([]model.APIKey, error)
	Revoke(ctx context.Context, actorID, orgID, keyID int64) error
	Authenticate(ctx context.Context, secret string) (*model.APIKey, error)
}

type apiKeyService struct {
	keys     store.APIKeyStore
	guard    authz.Authorizer
	recorder audit.Recorder
	limits   config.RateLimitConfig
	now      func() time.Time
}

func NewAPIKeyService(keys store.APIKeyStore, guard authz.Authorizer, recorder audit.Recorder, limits config.RateLimitConfig) APIKeyService {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = 1000
	}
	if limits.DefaultWindow <= 0 {
		limits.DefaultWindow = time.Hour
	}
	return &apiKeyService{
		keys:     keys,
		guard:    guard,
		recorder: recorder,
		limits:   limits,
		now:      time.Now,
	}
}

func (s *apiKeyService) Create(ctx context.Context, actorID, orgID int64, params CreateAPIKeyParams) (*CreatedAPIKey, error) {
	actor, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermAPIKeysWrite)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	limit := s.limits.DefaultLimit
	if params.RateLimit != nil {
		limit = *params.RateLimit
	}
	window := s.limits.DefaultWindow
	if params.RateLimitWindow != nil {
		window = *params.RateLimitWindow
	}

	v := domain.NewValidationError()
	if n := utf8.RuneCountInString(name); n < 1 || n > maxAPIKeyName {
		v.Add("name", fmt.Sprintf("must be 1-%d characters", maxAPIKeyName))
	}
	if len(params.Permissions) == 0 {
		v.Add("permissions", "at least one permission is required")
	}
	for _, p := range params.Permissions {
		if !p.Valid() {
			v.Add("permissions", fmt.Sprintf("unknown permission %q", p))
		}
	}
	if limit < 1 || limit > maxRateLimit {
		v.Add("rate_limit", fmt.Sprintf("must be between 1 and %d", maxRateLimit))
	}
	if window < time.Second {
		v.Add("rate_limit_window", "must be at least one second")
	}
	if params.ExpiresAt != nil && !params.ExpiresAt.After(s.now()) {
		v.Add("expires_at", "must be in the future")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	// A key can never do more than its creator's role allows.
	perms := dedupePermissions(params.Permissions)
	for _, p := range perms {
		if !authz.RoleHas(actor.Role, p) {
			return nil, fmt.Errorf("%w: role %s cannot grant %s", domain.ErrForbidden, actor.Role, p)
		}
	}

	secret, err := generateAPIKeySecret()
	if err != nil {
		return nil, fmt.Errorf("generating api key: %w", err)
	}

	key := &model.APIKey{
		ID:              id.New(),
		OrganizationID:  orgID,
		UserID:          actorID,
		Name:            name,
		KeyPrefix:       secret[:apiKeyPrefixLen],
		KeyHash:         HashAPIKey(secret),
		Permissions:     perms,
		RateLimit:       limit,
		RateLimitWindow: window,
		IsActive:        true,
		ExpiresAt:       params.ExpiresAt,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, storeErr("creating api key", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditAPIKeyCreated,
		ResourceType:   model.ResourceAPIKey,
		ResourceID:     strconv.FormatInt(key.ID, 10),
		Metadata: map[string]any{
			"name":        key.Name,
			"keyPrefix":   key.KeyPrefix,
			"permissions": key.Permissions,
		},
	})

	return &CreatedAPIKey{Key: key, Secret: secret}, nil
}

func (s *apiKeyService) List(ctx context.Context, actorID, orgID int64) ([]model.APIKey, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermAPIKeysRead); err != nil {
		return nil, err
	}
	keys, err := s.keys.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}
	for i := range keys {
		keys[i].KeyHash = ""
	}
	return keys, nil
}

func (s *apiKeyService) Revoke(ctx context.Context, actorID, orgID, keyID int64) error {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermAPIKeysWrite); err != nil {
		return err
	}

	key, err := s.keys.Revoke(ctx, orgID, keyID)
	if err != nil {
		return storeErr("revoking api key", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditAPIKeyRevoked,
		ResourceType:   model.ResourceAPIKey,
		ResourceID:     strconv.FormatInt(key.ID, 10),
		Metadata: map[string]any{
			"name":      key.Name,
			"keyPrefix": key.KeyPrefix,
		},
	})
	return nil
}

func (s *apiKeyService) Authenticate(ctx context.Context, secret string) (*model.APIKey, error) {
	if !strings.HasPrefix(secret, APIKeyPrefix) {
		return nil, ErrInvalidAPIKey
	}

	key, err := s.keys.GetByHash(ctx, HashAPIKey(secret))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("looking up api key: %w", err)
	}
	if !key.IsActive || key.IsExpired(s.now()) {
		return nil, ErrInvalidAPIKey
	}

	if err := s.keys.TouchLastUsed(ctx, key.ID); err != nil {
		slog.WarnContext(ctx, "failed to record api key usage", "error", err, "api_key_id", key.ID)
	}

	return key, nil
}

// HashAPIKey is the lookup form of a secret: lower-case sha256 hex.
func HashAPIKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func generateAPIKeySecret() (string, error) {
	b := make([]byte, apiKeySecretLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return APIKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

func dedupePermissions(perms []model.Permission) []model.Permission {
	seen := make(map[model.Permission]bool, len(perms))
	out := make([]model.Permission, 0, len(perms))
	for _, p := range perms {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
