package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

var errOwnerRole = fmt.Errorf("%w: the owner role cannot be granted, changed or removed", domain.ErrInvalidOperation)

// InviteResult holds either the pending membership of a known user or the
// deferred invitation for an unknown email.
type InviteResult struct {
	Membership *model.Membership
	Invitation *model.Invitation
	InviteURL  string
}

type MembershipService interface {
	List(ctx context.Context, actorID, orgID int64) ([]model.Member, error)
	ListPending(ctx context.Context, actorID, orgID int64) ([]model.Member, error)
	Invite(ctx context.Context, actorID, orgID int64, email string, role model.Role) (*InviteResult, error)
	UpdateRole(ctx context.Context, actorID, orgID, membershipID int64, role model.Role) (*model.Membership, error)
	Remove(ctx context.Context, actorID, orgID, membershipID int64) error
	Accept(ctx context.Context, actorID, orgID int64) (*model.Membership, error)
}

type membershipService struct {
	memberships  store.MembershipStore
	users        store.UserStore
	invitations  store.InvitationStore
	guard        authz.Authorizer
	recorder     audit.Recorder
	mirror       providerMirror
	dashboardURL string
}

func NewMembershipService(
	memberships store.MembershipStore,
	users store.UserStore,
	orgs store.OrganizationStore,
	invitations store.InvitationStore,
	guard authz.Authorizer,
	recorder audit.Recorder,
	provider identity.Provider,
	dashboardURL string,
) MembershipService {
	return &membershipService{
		memberships:  memberships,
		users:        users,
		invitations:  invitations,
		guard:        guard,
		recorder:     recorder,
		mirror:       providerMirror{orgs: orgs, provider: provider},
		dashboardURL: dashboardURL,
	}
}

func (s *membershipService) List(ctx context.Context, actorID, orgID int64) ([]model.Member, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationMembersRead); err != nil {
		return nil, err
	}
	members, err := s.memberships.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

func (s *membershipService) ListPending(ctx context.Context, actorID, orgID int64) ([]model.Member, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationMembersRead); err != nil {
		return nil, err
	}
	members, err := s.memberships.ListPending(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing pending members: %w", err)
	}
	return members, nil
}

func (s *membershipService) Invite(ctx context.Context, actorID, orgID int64, email string, role model.Role) (*InviteResult, error) {
	actor, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationMembersWrite)
	if err != nil {
		return nil, err
	}

	normalized, ok := normalizeEmail(email)
	v := domain.NewValidationError()
	if !ok {
		v.Add("email", "must be a valid email address")
	}
	if !role.Valid() {
		v.Add("role", "must be one of OWNER, ADMIN, MEMBER, VIEWER")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if role == model.RoleOwner {
		return nil, errOwnerRole
	}
	if !authz.CanManage(actor.Role, role) {
		return nil, errInsufficientRole
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return s.inviteByEmail(ctx, actorID, orgID, normalized, role)
	case err != nil:
		return nil, fmt.Errorf("looking up invitee: %w", err)
	}

	if _, err := s.memberships.GetByUserAndOrg(ctx, user.ID, orgID); err == nil {
		return nil, fmt.Errorf("%w: user is already a member", domain.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking membership: %w", err)
	}

	now := time.Now()
	membership := &model.Membership{
		ID:             id.New(),
		UserID:         user.ID,
		OrganizationID: orgID,
		Role:           role,
		InvitedAt:      &now,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, storeErr("creating membership", err)
	}

	s.mirror.createMembership(ctx, orgID, user, role)

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditMemberInvited,
		ResourceType:   model.ResourceOrganizationMember,
		ResourceID:     strconv.FormatInt(membership.ID, 10),
		Metadata: map[string]any{
			"email": normalized,
			"role":  role,
		},
	})

	slog.InfoContext(ctx, "member invited",
		"organization_id", orgID,
		"membership_id", membership.ID,
		"invited_by", actorID)

	return &InviteResult{Membership: membership}, nil
}

// inviteByEmail defers the invite until someone signs up with that email.
// The audit row is attributed to the inviter; the invitee has no user id yet.
func (s *membershipService) inviteByEmail(ctx context.Context, actorID, orgID int64, email string, role model.Role) (*InviteResult, error) {
	if existing, err := s.invitations.GetPendingByEmail(ctx, orgID, email); err == nil && existing.IsValid() {
		return nil, ErrInvitePendingExists
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking pending invitations: %w", err)
	}

	inv, err := newInvitation(orgID, email, role, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrInvitePendingExists
		}
		return nil, fmt.Errorf("creating invitation: %w", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditMemberInvited,
		ResourceType:   model.ResourceInvitation,
		ResourceID:     strconv.FormatInt(inv.ID, 10),
		Metadata: map[string]any{
			"email": email,
			"role":  role,
		},
	})

	slog.InfoContext(ctx, "invitation created",
		"organization_id", orgID,
		"invitation_id", inv.ID,
		"expires_at", inv.ExpiresAt)

	return &InviteResult{Invitation: inv, InviteURL: inviteURL(s.dashboardURL, inv.Token)}, nil
}

func (s *membershipService) UpdateRole(ctx context.Context, actorID, orgID, membershipID int64, role model.Role) (*model.Membership, error) {
	actor, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationMembersWrite)
	if err != nil {
		return nil, err
	}

	if !role.Valid() {
		v := domain.NewValidationError()
		v.Add("role", "must be one of OWNER, ADMIN, MEMBER, VIEWER")
		return nil, v
	}

	target, err := s.targetMembership(ctx, orgID, membershipID)
	if err != nil {
		return nil, err
	}
	if target.Role == model.RoleOwner || role == model.RoleOwner {
		return nil, errOwnerRole
	}
	if !authz.CanManage(actor.Role, target.Role) || !authz.CanManage(actor.Role, role) {
		return nil, errInsufficientRole
	}
	if target.Role == role {
		return target, nil
	}

	oldRole := target.Role
	if err := s.memberships.SetRole(ctx, target.ID, oldRole, role); err != nil {
		return nil, storeErr("updating role", err)
	}
	target.Role = role

	user, err := s.users.GetByID(ctx, target.UserID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load member after role change", "error", err, "membership_id", target.ID)
		user = &model.User{ID: target.UserID}
	}
	s.mirror.updateMembership(ctx, orgID, user, role)

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditMemberRoleUpdated,
		ResourceType:   model.ResourceOrganizationMember,
		ResourceID:     strconv.FormatInt(target.ID, 10),
		Metadata: map[string]any{
			"oldRole":     oldRole,
			"newRole":     role,
			"memberEmail": user.Email,
		},
	})

	return target, nil
}

// Remove lets members with members:write remove lower-ranked members, and
// lets anyone but the OWNER leave on their own.
func (s *membershipService) Remove(ctx context.Context, actorID, orgID, membershipID int64) error {
	access, err := s.guard.RequireRole(ctx, actorID, orgID, model.Roles...)
	if err != nil {
		return err
	}
	actor := access.Membership

	target, err := s.targetMembership(ctx, orgID, membershipID)
	if err != nil {
		return err
	}
	if target.Role == model.RoleOwner {
		return errOwnerRole
	}
	self := target.UserID == actorID
	if !self {
		if !authz.RoleHas(actor.Role, model.PermOrganizationMembersWrite) || !authz.CanManage(actor.Role, target.Role) {
			return errInsufficientRole
		}
	}

	if err := s.memberships.Remove(ctx, target.ID); err != nil {
		return storeErr("removing member", err)
	}

	user, err := s.users.GetByID(ctx, target.UserID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load removed member", "error", err, "membership_id", target.ID)
		user = &model.User{ID: target.UserID}
	}
	s.mirror.deleteMembership(ctx, access.Organization, user)

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditMemberRemoved,
		ResourceType:   model.ResourceOrganizationMember,
		ResourceID:     strconv.FormatInt(target.ID, 10),
		Metadata: map[string]any{
			"role":        target.Role,
			"memberEmail": user.Email,
			"selfRemoval": self,
		},
	})

	return nil
}

// Accept joins the actor's pending membership. It is the one operation a
// pending member can perform, so it reads the store instead of the guard.
func (s *membershipService) Accept(ctx context.Context, actorID, orgID int64) (*model.Membership, error) {
	if actorID == 0 {
		return nil, domain.ErrUnauthorized
	}

	pending, err := s.memberships.GetByUserAndOrg(ctx, actorID, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errInsufficientRole
		}
		return nil, fmt.Errorf("getting membership: %w", err)
	}
	if !pending.IsPending() {
		return pending, nil
	}

	joined, err := s.memberships.MarkJoined(ctx, pending.ID)
	if err != nil {
		return nil, storeErr("joining organization", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditMemberJoined,
		ResourceType:   model.ResourceOrganizationMember,
		ResourceID:     strconv.FormatInt(joined.ID, 10),
		Metadata:       map[string]any{"role": joined.Role},
	})

	return joined, nil
}

// targetMembership hides memberships of other organizations behind NotFound.
func (s *membershipService) targetMembership(ctx context.Context, orgID, membershipID int64) (*model.Membership, error) {
	target, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil {
		return nil, storeErr("getting membership", err)
	}
	if target.OrganizationID != orgID {
		return nil, fmt.Errorf("getting membership: %w", domain.ErrNotFound)
	}
	return target, nil
}
