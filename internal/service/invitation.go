package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

const (
	InviteTokenLength = 32
	InviteExpiryDays  = 7
)

var (
	ErrInviteNotFound      = fmt.Errorf("%w: invitation not found", domain.ErrNotFound)
	ErrInviteExpired       = fmt.Errorf("%w: invitation has expired", domain.ErrInvalidOperation)
	ErrInviteAlreadyUsed   = fmt.Errorf("%w: invitation has already been used", domain.ErrInvalidOperation)
	ErrInviteRevoked       = fmt.Errorf("%w: invitation has been revoked", domain.ErrInvalidOperation)
	ErrEmailMismatch       = fmt.Errorf("%w: authenticated email does not match invitation", domain.ErrForbidden)
	ErrInvitePendingExists = fmt.Errorf("%w: a pending invitation already exists for this email", domain.ErrConflict)
	ErrAlreadyMember       = fmt.Errorf("%w: already a member of this organization", domain.ErrConflict)
)

type InvitationService interface {
	ValidateToken(ctx context.Context, token string) (*model.Invitation, error)
	Accept(ctx context.Context, token string, user *model.User) (*model.Invitation, error)
	Revoke(ctx context.Context, actorID, orgID, invitationID int64) (*model.Invitation, error)
	ListPending(ctx context.Context, actorID, orgID int64) ([]model.Invitation, error)
	ExpireStale(ctx context.Context) error
}

type invitationService struct {
	invStore store.InvitationStore
	txRunner TxRunner
	guard    authz.Authorizer
	recorder audit.Recorder
	mirror   providerMirror
}

func NewInvitationService(
	invStore store.InvitationStore,
	orgs store.OrganizationStore,
	txRunner TxRunner,
	guard authz.Authorizer,
	recorder audit.Recorder,
	provider identity.Provider,
) InvitationService {
	return &invitationService{
		invStore: invStore,
		txRunner: txRunner,
		guard:    guard,
		recorder: recorder,
		mirror:   providerMirror{orgs: orgs, provider: provider},
	}
}

func newInvitation(orgID int64, email string, role model.Role, invitedBy int64) (*model.Invitation, error) {
	token, err := generateSecureToken(InviteTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &model.Invitation{
		ID:             id.New(),
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Token:          token,
		Status:         model.InvitationStatusPending,
		InvitedBy:      &invitedBy,
		ExpiresAt:      time.Now().Add(InviteExpiryDays * 24 * time.Hour),
	}, nil
}

func inviteURL(dashboardURL, token string) string {
	return fmt.Sprintf("%s/invite?token=%s", dashboardURL, url.QueryEscape(token))
}

func (s *invitationService) ValidateToken(ctx context.Context, token string) (*model.Invitation, error) {
	if token == "" {
		return nil, ErrInviteNotFound
	}
	inv, err := s.invStore.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("getting invitation: %w", err)
	}

	switch inv.Status {
	case model.InvitationStatusAccepted:
		return nil, ErrInviteAlreadyUsed
	case model.InvitationStatusRevoked:
		return nil, ErrInviteRevoked
	case model.InvitationStatusExpired:
		return nil, ErrInviteExpired
	}
	if !inv.IsValid() {
		return nil, ErrInviteExpired
	}
	return inv, nil
}

// Accept turns the invitation into a joined membership. Both writes share a
// transaction so a used invitation always has its membership. A membership
// created here is mirrored to the provider once the transaction commits.
// Users who already joined get ErrAlreadyMember and the invitation stays
// pending.
func (s *invitationService) Accept(ctx context.Context, token string, user *model.User) (*model.Invitation, error) {
	inv, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(inv.Email, user.Email) {
		slog.WarnContext(ctx, "email mismatch on invitation acceptance",
			"invitation_id", inv.ID,
			"user_id", user.ID,
		)
		return nil, ErrEmailMismatch
	}

	var (
		accepted     *model.Invitation
		membershipID int64
		created      bool
	)
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		// A direct invite may already have left a pending membership. Check
		// first: a failed insert would abort the transaction.
		existing, err := sp.Memberships().GetByUserAndOrg(ctx, user.ID, inv.OrganizationID)
		switch {
		case err == nil && !existing.IsPending():
			return ErrAlreadyMember
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return storeErr("checking membership", err)
		}

		accepted, err = sp.Invitations().Accept(ctx, inv.ID, user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteAlreadyUsed
			}
			return fmt.Errorf("accepting invitation: %w", err)
		}

		var m *model.Membership
		if existing != nil {
			m, err = sp.Memberships().MarkJoined(ctx, existing.ID)
		} else {
			created = true
			now := time.Now()
			invitedAt := inv.CreatedAt
			m = &model.Membership{
				ID:             id.New(),
				UserID:         user.ID,
				OrganizationID: inv.OrganizationID,
				Role:           inv.Role,
				InvitedAt:      &invitedAt,
				JoinedAt:       &now,
			}
			err = sp.Memberships().Create(ctx, m)
		}
		if err != nil {
			return storeErr("creating membership", err)
		}
		membershipID = m.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.mirror.createMembership(ctx, inv.OrganizationID, user, inv.Role)
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: inv.OrganizationID,
		ActorID:        &user.ID,
		Action:         model.AuditMemberJoined,
		ResourceType:   model.ResourceOrganizationMember,
		ResourceID:     strconv.FormatInt(membershipID, 10),
		Metadata: map[string]any{
			"invitationId": strconv.FormatInt(inv.ID, 10),
			"role":         inv.Role,
		},
	})

	slog.InfoContext(ctx, "invitation accepted",
		"invitation_id", inv.ID,
		"organization_id", inv.OrganizationID,
		"user_id", user.ID,
	)

	return accepted, nil
}

func (s *invitationService) Revoke(ctx context.Context, actorID, orgID, invitationID int64) (*model.Invitation, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationMembersWrite); err != nil {
		return nil, err
	}

	existing, err := s.invStore.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("getting invitation: %w", err)
	}
	if existing.OrganizationID != orgID {
		return nil, ErrInviteNotFound
	}
	if existing.Status != model.InvitationStatusPending {
		return nil, fmt.Errorf("%w: invitation is %s", domain.ErrInvalidOperation, existing.Status)
	}

	inv, err := s.invStore.Revoke(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("revoking invitation: %w", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditInvitationRevoked,
		ResourceType:   model.ResourceInvitation,
		ResourceID:     strconv.FormatInt(inv.ID, 10),
		Metadata:       map[string]any{"email": inv.Email},
	})

	slog.InfoContext(ctx, "invitation revoked",
		"invitation_id", invitationID,
		"organization_id", orgID,
	)

	return inv, nil
}

func (s *invitationService) ListPending(ctx context.Context, actorID, orgID int64) ([]model.Invitation, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationMembersRead); err != nil {
		return nil, err
	}
	invs, err := s.invStore.ListPending(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing invitations: %w", err)
	}
	return invs, nil
}

// ExpireStale flips pending invitations past their expiry to expired.
func (s *invitationService) ExpireStale(ctx context.Context) error {
	if err := s.invStore.ExpireOld(ctx); err != nil {
		return fmt.Errorf("expiring invitations: %w", err)
	}
	return nil
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
