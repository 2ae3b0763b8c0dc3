package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

// MembershipReader is the slice of the membership store the guard needs.
type MembershipReader interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID int64) (*model.Membership, error)
}

type OrganizationReader interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
}

// DecisionObserver is notified of every permission decision.
type DecisionObserver interface {
	ObserveDecision(check string, allowed bool)
}

// Access is what RequireRole resolved, handed back so callers skip a second lookup.
type Access struct {
	Membership   *model.Membership
	Organization *model.Organization
}

// Authorizer is implemented by Guard. Services depend on this interface.
type Authorizer interface {
	HasPermission(ctx context.Context, userID, orgID int64, perm model.Permission) bool
	RequirePermission(ctx context.Context, userID, orgID int64, perm model.Permission) (*model.Membership, error)
	RequireRole(ctx context.Context, userID, orgID int64, allowed ...model.Role) (*Access, error)
	Authorize(ctx context.Context, p Principal, orgID int64, perm model.Permission) error
}

// Principal is whoever makes a request: a signed-in user or an API key.
type Principal struct {
	UserID int64
	APIKey *model.APIKey
}

func UserPrincipal(userID int64) Principal {
	return Principal{UserID: userID}
}

func KeyPrincipal(key *model.APIKey) Principal {
	return Principal{APIKey: key}
}

// ActorID is the user audit entries are attributed to. API keys act as the
// system and yield nil.
func (p Principal) ActorID() *int64 {
	if p.APIKey != nil || p.UserID == 0 {
		return nil
	}
	id := p.UserID
	return &id
}

// errNoAccess is returned for every "not allowed" outcome, whether the
// organization is missing, the user is not a member or the role lacks the
// permission. Callers must not be able to tell these apart.
var errNoAccess = fmt.Errorf("%w: insufficient permissions", domain.ErrForbidden)

// Guard answers authorization questions from the current membership row.
// It holds no cache: every call reads the store.
type Guard struct {
	memberships   MembershipReader
	organizations OrganizationReader
	observer      DecisionObserver
}

func NewGuard(memberships MembershipReader, organizations OrganizationReader, observer DecisionObserver) *Guard {
	return &Guard{
		memberships:   memberships,
		organizations: organizations,
		observer:      observer,
	}
}

// HasPermission never fails. Any lookup miss or store error is a denial.
func (g *Guard) HasPermission(ctx context.Context, userID, orgID int64, perm model.Permission) bool {
	_, err := g.RequirePermission(ctx, userID, orgID, perm)
	return err == nil
}

func (g *Guard) RequirePermission(ctx context.Context, userID, orgID int64, perm model.Permission) (*model.Membership, error) {
	if userID == 0 {
		g.observe(string(perm), false)
		return nil, domain.ErrUnauthorized
	}

	membership, err := g.activeMembership(ctx, userID, orgID)
	if err != nil {
		g.observe(string(perm), false)
		return nil, err
	}

	if !RoleHas(membership.Role, perm) {
		slog.DebugContext(ctx, "permission denied",
			"user_id", userID,
			"organization_id", orgID,
			"role", membership.Role,
			"permission", perm)
		g.observe(string(perm), false)
		return nil, errNoAccess
	}

	g.observe(string(perm), true)
	return membership, nil
}

func (g *Guard) RequireRole(ctx context.Context, userID, orgID int64, allowed ...model.Role) (*Access, error) {
	check := "role"
	if userID == 0 {
		g.observe(check, false)
		return nil, domain.ErrUnauthorized
	}

	membership, err := g.activeMembership(ctx, userID, orgID)
	if err != nil {
		g.observe(check, false)
		return nil, err
	}

	permitted := false
	for _, r := range allowed {
		if membership.Role == r {
			permitted = true
			break
		}
	}
	if !permitted {
		g.observe(check, false)
		return nil, errNoAccess
	}

	org, err := g.organizations.GetByID(ctx, orgID)
	if err != nil {
		g.observe(check, false)
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNoAccess
		}
		return nil, fmt.Errorf("loading organization: %w", err)
	}

	g.observe(check, true)
	return &Access{Membership: membership, Organization: org}, nil
}

// Authorize checks a user through their membership and an API key through
// its own grant list.
func (g *Guard) Authorize(ctx context.Context, p Principal, orgID int64, perm model.Permission) error {
	if p.APIKey == nil {
		_, err := g.RequirePermission(ctx, p.UserID, orgID, perm)
		return err
	}
	allowed := KeyAllows(p.APIKey, orgID, perm)
	g.observe(string(perm), allowed)
	if !allowed {
		return errNoAccess
	}
	return nil
}

// activeMembership returns the joined membership for (user, org).
// Pending invites confer nothing.
func (g *Guard) activeMembership(ctx context.Context, userID, orgID int64) (*model.Membership, error) {
	membership, err := g.memberships.GetByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNoAccess
		}
		slog.ErrorContext(ctx, "failed to load membership for authorization",
			"error", err,
			"user_id", userID,
			"organization_id", orgID)
		return nil, fmt.Errorf("loading membership: %w", err)
	}
	if membership.IsPending() {
		return nil, errNoAccess
	}
	return membership, nil
}

func (g *Guard) observe(check string, allowed bool) {
	if g.observer != nil {
		g.observer.ObserveDecision(check, allowed)
	}
}
