package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write hits a unique constraint
var ErrConflict = errors.New("already exists")

// ErrTimeout is returned when a query or lock wait ran out of time. It is
// an upstream failure, so callers that only wrap it still report a retriable error.
var ErrTimeout = fmt.Errorf("%w: store timeout", domain.ErrUpstream)

var (
	// ErrOwnerImmutable is returned when a write would change, remove or mint an OWNER.
	ErrOwnerImmutable = errors.New("owner membership cannot be modified")
	// ErrStaleRole is returned when the role changed underneath a conditional update.
	ErrStaleRole = errors.New("membership role changed concurrently")
	// ErrLastOwner is returned when a delete would leave an organization without an OWNER.
	ErrLastOwner = errors.New("cannot remove the last owner")
)

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByWorkOSID(ctx context.Context, workosID string) (*model.User, error)
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	DeleteByWorkOSID(ctx context.Context, workosID string) (int64, error)
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) error
}

// OrganizationStore defines the contract for organization data access
type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	GetByName(ctx context.Context, name string) (*model.Organization, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.Organization, error)
	Create(ctx context.Context, org *model.Organization) error
	Update(ctx context.Context, org *model.Organization) error
	UpsertBySlug(ctx context.Context, org *model.Organization) error
	Sync(ctx context.Context, id int64, name string, externalID *string) (*model.Organization, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Organization, error)
	Stats(ctx context.Context, orgID int64, membersSince, activitySince time.Time) (*model.OrganizationStats, error)
}

// MembershipStore defines the contract for membership data access.
// SetRole and Remove refuse OWNER targets at the SQL level.
type MembershipStore interface {
	Create(ctx context.Context, m *model.Membership) error
	GetByID(ctx context.Context, id int64) (*model.Membership, error)
	GetByUserAndOrg(ctx context.Context, userID, orgID int64) (*model.Membership, error)
	SetRole(ctx context.Context, id int64, current, next model.Role) error
	Remove(ctx context.Context, id int64) error
	MarkJoined(ctx context.Context, id int64) (*model.Membership, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]model.Member, error)
	ListPending(ctx context.Context, orgID int64) ([]model.Member, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Membership, error)
	Upsert(ctx context.Context, m *model.Membership) error
	RemoveByUserAndOrg(ctx context.Context, userID, orgID int64) (bool, error)
	CountOwners(ctx context.Context, orgID int64) (int64, error)
	ListOwnedOrganizationIDs(ctx context.Context, userID int64) ([]int64, error)
}

// InvitationStore defines the contract for invitation data access
type InvitationStore interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByID(ctx context.Context, id int64) (*model.Invitation, error)
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	GetPendingByEmail(ctx context.Context, orgID int64, email string) (*model.Invitation, error)
	ListPending(ctx context.Context, orgID int64) ([]model.Invitation, error)
	Accept(ctx context.Context, id int64, userID int64) (*model.Invitation, error)
	Revoke(ctx context.Context, id int64) (*model.Invitation, error)
	ExpireOld(ctx context.Context) error
}

// APIKeyStore defines the contract for api key data access
type APIKeyStore interface {
	Create(ctx context.Context, key *model.APIKey) error
	GetByHash(ctx context.Context, hash string) (*model.APIKey, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]model.APIKey, error)
	Revoke(ctx context.Context, orgID, id int64) (*model.APIKey, error)
	TouchLastUsed(ctx context.Context, id int64) error
	DeactivateByUser(ctx context.Context, userID int64) (int64, error)
}

// AuditLogStore is append only.
type AuditLogStore interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListByOrganization(ctx context.Context, orgID int64, beforeID int64, limit int32) ([]model.AuditLog, error)
}

type MonitorStore interface {
	Create(ctx context.Context, m *model.Monitor) error
	GetByID(ctx context.Context, orgID, id int64) (*model.Monitor, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]model.Monitor, error)
	Update(ctx context.Context, m *model.Monitor) error
	Delete(ctx context.Context, orgID, id int64) error
}

type SubscriptionStore interface {
	ListByOrganization(ctx context.Context, orgID int64) ([]model.Subscription, error)
	CountActive(ctx context.Context, orgID int64) (int64, error)
}

// IdentityEventStore dedupes identity provider webhook deliveries.
type IdentityEventStore interface {
	CreateOrGet(ctx context.Context, event *model.IdentityEvent) (*model.IdentityEvent, bool, error)
	MarkProcessed(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}
