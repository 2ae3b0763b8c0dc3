package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

const maxNamePartLen = 50

// ErrSoleOwner blocks account deletion while the user still owns an
// organization. Ownership has to be transferred or the organization deleted
// first.
var ErrSoleOwner = fmt.Errorf("%w: transfer or delete owned organizations first", domain.ErrInvalidOperation)

type UpdateProfileParams struct {
	FirstName string
	LastName  string
}

// AccountService is the signed-in user managing their own account.
type AccountService interface {
	UpdateProfile(ctx context.Context, actor *model.User, params UpdateProfileParams) (*model.User, error)
	DeleteAccount(ctx context.Context, actor *model.User, confirmation string) error
}

type accountService struct {
	users       store.UserStore
	memberships store.MembershipStore
	txRunner    TxRunner
	recorder    audit.Recorder
	provider    identity.Provider
}

func NewAccountService(
	users store.UserStore,
	memberships store.MembershipStore,
	txRunner TxRunner,
	recorder audit.Recorder,
	provider identity.Provider,
) AccountService {
	return &accountService{
		users:       users,
		memberships: memberships,
		txRunner:    txRunner,
		recorder:    recorder,
		provider:    provider,
	}
}

// UpdateProfile writes the provider first: the provider echoes the change
// back as a user.updated event, and a local-only edit would be overwritten
// by the next one.
func (s *accountService) UpdateProfile(ctx context.Context, actor *model.User, params UpdateProfileParams) (*model.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	first := strings.TrimSpace(params.FirstName)
	last := strings.TrimSpace(params.LastName)
	v := domain.NewValidationError()
	checkNamePart(v, "first_name", first)
	checkNamePart(v, "last_name", last)
	if v.HasErrors() {
		return nil, v
	}

	if actor.WorkOSID != nil {
		if err := s.provider.UpdateUser(ctx, *actor.WorkOSID, first, last); err != nil {
			return nil, fmt.Errorf("updating user at identity provider: %w: %w", domain.ErrUpstream, err)
		}
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("loading user", err)
	}
	previous := user.Name
	user.FirstName = first
	user.LastName = last
	user.Name = first + " " + last
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr("updating user", err)
	}

	orgIDs, err := s.joinedOrganizationIDs(ctx, user.ID)
	if err != nil {
		slog.WarnContext(ctx, "profile updated without audit", "error", err, "user_id", user.ID)
		orgIDs = nil
	}
	for _, orgID := range orgIDs {
		s.recorder.Record(ctx, audit.Entry{
			OrganizationID: orgID,
			ActorID:        &user.ID,
			Action:         model.AuditUserProfileUpdated,
			ResourceType:   model.ResourceUser,
			ResourceID:     strconv.FormatInt(user.ID, 10),
			Metadata: map[string]any{
				"previousName": previous,
				"name":         user.Name,
			},
		})
	}

	slog.InfoContext(ctx, "profile updated", "user_id", user.ID)
	return user, nil
}

// DeleteAccount removes the user from every organization, disables their API
// keys and ends their sessions. The user row itself goes away when the
// provider's user.deleted event arrives.
func (s *accountService) DeleteAccount(ctx context.Context, actor *model.User, confirmation string) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if confirmation != DeleteConfirmation {
		v := domain.NewValidationError()
		v.Add("confirmation", fmt.Sprintf("must be %q", DeleteConfirmation))
		return v
	}

	owned, err := s.memberships.ListOwnedOrganizationIDs(ctx, actor.ID)
	if err != nil {
		return storeErr("listing owned organizations", err)
	}
	if len(owned) > 0 {
		return fmt.Errorf("%w: owner of %d organization(s)", ErrSoleOwner, len(owned))
	}

	if actor.WorkOSID != nil {
		if err := s.provider.DeleteUser(ctx, *actor.WorkOSID); err != nil {
			return fmt.Errorf("deleting user at identity provider: %w: %w", domain.ErrUpstream, err)
		}
	}

	var (
		removed     []int64
		deactivated int64
	)
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		memberships, err := stores.Memberships().ListByUser(ctx, actor.ID)
		if err != nil {
			return storeErr("listing memberships", err)
		}
		for _, m := range memberships {
			ok, err := stores.Memberships().RemoveByUserAndOrg(ctx, actor.ID, m.OrganizationID)
			if err != nil {
				return storeErr("removing membership", err)
			}
			if ok {
				removed = append(removed, m.OrganizationID)
			}
		}
		if deactivated, err = stores.APIKeys().DeactivateByUser(ctx, actor.ID); err != nil {
			return storeErr("deactivating api keys", err)
		}
		if err := stores.Sessions().DeleteByUser(ctx, actor.ID); err != nil {
			return storeErr("deleting sessions", err)
		}
		return nil
	})
	if err != nil {
		// The provider user is already gone; its user.deleted event cleans up
		// whatever this transaction could not.
		slog.ErrorContext(ctx, "local account cleanup failed", "error", err, "user_id", actor.ID)
		return err
	}

	for _, orgID := range removed {
		s.recorder.Record(ctx, audit.Entry{
			OrganizationID: orgID,
			ActorID:        &actor.ID,
			Action:         model.AuditUserAccountDeleted,
			ResourceType:   model.ResourceUser,
			ResourceID:     strconv.FormatInt(actor.ID, 10),
			Metadata: map[string]any{
				"email": actor.Email,
			},
		})
	}

	slog.InfoContext(ctx, "account deleted",
		"user_id", actor.ID,
		"organizations", len(removed),
		"api_keys_deactivated", deactivated)
	return nil
}

func (s *accountService) joinedOrganizationIDs(ctx context.Context, userID int64) ([]int64, error) {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(memberships))
	for _, m := range memberships {
		if !m.IsPending() {
			ids = append(ids, m.OrganizationID)
		}
	}
	return ids, nil
}

func checkNamePart(v *domain.ValidationError, field, value string) {
	switch n := utf8.RuneCountInString(value); {
	case n == 0:
		v.Add(field, "is required")
	case n > maxNamePartLen:
		v.Add(field, fmt.Sprintf("must be at most %d characters", maxNamePartLen))
	}
}
