package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"tenantkit.dev/api/common"
	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

const (
	minOrgNameLen     = 2
	maxOrgNameLen     = 100
	maxDescriptionLen = 500
	maxSlugSuffix     = 20

	statsMembersWindow  = 30 * 24 * time.Hour
	statsActivityWindow = 7 * 24 * time.Hour

	// DeleteConfirmation must be typed back to delete an organization.
	DeleteConfirmation = "DELETE"
)

type CreateOrganizationParams struct {
	Name        string
	Slug        *string
	Description *string
}

// UpdateOrganizationParams leaves nil fields untouched.
type UpdateOrganizationParams struct {
	Name        *string
	Description *string
	Settings    json.RawMessage
	AvatarURL   *string
}

type OrganizationService interface {
	Create(ctx context.Context, actorID int64, params CreateOrganizationParams) (*model.Organization, error)
	Get(ctx context.Context, actorID, orgID int64) (*model.UserOrganization, error)
	ListForUser(ctx context.Context, actorID int64) ([]model.UserOrganization, error)
	Stats(ctx context.Context, actorID, orgID int64) (*model.OrganizationStats, error)
	Update(ctx context.Context, actorID, orgID int64, params UpdateOrganizationParams) (*model.Organization, error)
	Delete(ctx context.Context, actorID, orgID int64, confirmation string) error
}

type organizationService struct {
	orgStore      store.OrganizationStore
	memberships   store.MembershipStore
	subscriptions store.SubscriptionStore
	txRunner      TxRunner
	guard         authz.Authorizer
	recorder      audit.Recorder
	provider      identity.Provider
	sanitizer     *bluemonday.Policy
}

func NewOrganizationService(
	orgStore store.OrganizationStore,
	memberships store.MembershipStore,
	subscriptions store.SubscriptionStore,
	txRunner TxRunner,
	guard authz.Authorizer,
	recorder audit.Recorder,
	provider identity.Provider,
) OrganizationService {
	return &organizationService{
		orgStore:      orgStore,
		memberships:   memberships,
		subscriptions: subscriptions,
		txRunner:      txRunner,
		guard:         guard,
		recorder:      recorder,
		provider:      provider,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

func (s *organizationService) Create(ctx context.Context, actorID int64, params CreateOrganizationParams) (*model.Organization, error) {
	if actorID == 0 {
		return nil, domain.ErrUnauthorized
	}

	name := strings.TrimSpace(params.Name)
	description := s.cleanDescription(params.Description)

	v := domain.NewValidationError()
	validateOrgName(v, name)
	validateDescription(v, description)
	explicitSlug := params.Slug != nil && strings.TrimSpace(*params.Slug) != ""
	if explicitSlug && !common.ValidSlug(strings.TrimSpace(*params.Slug)) {
		v.Add("slug", fmt.Sprintf("must be %d-%d characters of a-z, 0-9 and hyphens", common.MinSlugLen, common.MaxSlugLen))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	var slug string
	if explicitSlug {
		slug = strings.TrimSpace(*params.Slug)
		if _, err := s.orgStore.GetBySlug(ctx, slug); err == nil {
			return nil, fmt.Errorf("%w: slug %q is taken", domain.ErrConflict, slug)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("checking slug availability: %w", err)
		}
	} else {
		var err error
		if slug, err = s.ensureSlug(ctx, name); err != nil {
			return nil, err
		}
	}

	externalID, err := s.provider.CreateOrganization(ctx, name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create organization at identity provider",
			"error", err,
			"name", name)
		return nil, err
	}

	now := time.Now()
	org := &model.Organization{
		ID:          id.New(),
		ExternalID:  &externalID,
		Name:        name,
		Slug:        slug,
		Description: description,
	}

	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Organizations().Create(ctx, org); err != nil {
			return storeErr("creating organization", err)
		}
		owner := &model.Membership{
			ID:             id.New(),
			UserID:         actorID,
			OrganizationID: org.ID,
			Role:           model.RoleOwner,
			JoinedAt:       &now,
		}
		if err := sp.Memberships().Create(ctx, owner); err != nil {
			return storeErr("creating owner membership", err)
		}
		return nil
	})
	if err != nil {
		s.rollbackProviderOrg(ctx, externalID)
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: org.ID,
		ActorID:        &actorID,
		Action:         model.AuditOrganizationCreated,
		ResourceType:   model.ResourceOrganization,
		ResourceID:     strconv.FormatInt(org.ID, 10),
		Metadata: map[string]any{
			"organizationName": org.Name,
			"slug":             org.Slug,
			"externalOrgId":    externalID,
		},
	})

	slog.InfoContext(ctx, "organization created",
		"organization_id", org.ID,
		"slug", org.Slug,
		"user_id", actorID)

	return org, nil
}

func (s *organizationService) rollbackProviderOrg(ctx context.Context, externalID string) {
	if err := s.provider.DeleteOrganization(ctx, externalID); err != nil {
		slog.WarnContext(ctx, "failed to remove provider organization after local create failed",
			"error", err,
			"external_id", externalID)
	}
}

// Get returns the organization with the caller's role in it.
func (s *organizationService) Get(ctx context.Context, actorID, orgID int64) (*model.UserOrganization, error) {
	membership, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationRead)
	if err != nil {
		return nil, err
	}
	org, err := s.orgStore.GetByID(ctx, orgID)
	if err != nil {
		return nil, storeErr("getting organization", err)
	}
	return &model.UserOrganization{Organization: *org, Role: membership.Role}, nil
}

// ListForUser returns the organizations the actor has joined, each with the
// actor's role.
func (s *organizationService) ListForUser(ctx context.Context, actorID int64) ([]model.UserOrganization, error) {
	if actorID == 0 {
		return nil, domain.ErrUnauthorized
	}
	orgs, err := s.orgStore.ListByUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	memberships, err := s.memberships.ListByUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	roles := make(map[int64]model.Role, len(memberships))
	for _, m := range memberships {
		if !m.IsPending() {
			roles[m.OrganizationID] = m.Role
		}
	}

	result := make([]model.UserOrganization, 0, len(orgs))
	for _, org := range orgs {
		role, ok := roles[org.ID]
		if !ok {
			// Left between the two reads.
			continue
		}
		result = append(result, model.UserOrganization{Organization: org, Role: role})
	}
	return result, nil
}

// Stats is readable by every joined member. The active subscription is only
// filled in for roles that may read billing.
func (s *organizationService) Stats(ctx context.Context, actorID, orgID int64) (*model.OrganizationStats, error) {
	membership, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationRead)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats, err := s.orgStore.Stats(ctx, orgID, now.Add(-statsMembersWindow), now.Add(-statsActivityWindow))
	if err != nil {
		return nil, storeErr("counting organization stats", err)
	}

	if authz.RoleHas(membership.Role, model.PermOrganizationBillingRead) {
		subs, err := s.subscriptions.ListByOrganization(ctx, orgID)
		if err != nil {
			return nil, fmt.Errorf("listing subscriptions: %w", err)
		}
		for i := range subs {
			if subs[i].Status == model.SubscriptionStatusActive {
				stats.ActiveSubscription = &subs[i]
				break
			}
		}
	}
	return stats, nil
}

func (s *organizationService) Update(ctx context.Context, actorID, orgID int64, params UpdateOrganizationParams) (*model.Organization, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationSettingsWrite); err != nil {
		return nil, err
	}

	org, err := s.orgStore.GetByID(ctx, orgID)
	if err != nil {
		return nil, storeErr("getting organization", err)
	}

	v := domain.NewValidationError()
	changed := map[string]any{}
	renamed := false

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		validateOrgName(v, name)
		if name != org.Name {
			changed["name"] = name
			org.Name = name
			renamed = true
		}
	}
	if params.Description != nil {
		description := s.cleanDescription(params.Description)
		validateDescription(v, description)
		changed["description"] = description
		org.Description = description
	}
	if params.Settings != nil {
		var obj map[string]any
		if err := json.Unmarshal(params.Settings, &obj); err != nil || obj == nil {
			v.Add("settings", "must be a JSON object")
		} else {
			changed["settings"] = obj
			org.Settings = params.Settings
		}
	}
	if params.AvatarURL != nil {
		avatar := strings.TrimSpace(*params.AvatarURL)
		if avatar != "" && !validHTTPURL(avatar) {
			v.Add("avatar_url", "must be an absolute http(s) URL")
		}
		changed["avatarUrl"] = avatar
		org.AvatarURL = nilIfEmpty(avatar)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return org, nil
	}

	if err := s.orgStore.Update(ctx, org); err != nil {
		return nil, storeErr("updating organization", err)
	}

	if renamed && org.ExternalID != nil {
		if err := s.provider.UpdateOrganization(ctx, *org.ExternalID, org.Name); err != nil {
			slog.WarnContext(ctx, "failed to rename organization at identity provider",
				"error", err,
				"organization_id", org.ID)
		}
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: org.ID,
		ActorID:        &actorID,
		Action:         model.AuditOrganizationUpdated,
		ResourceType:   model.ResourceOrganization,
		ResourceID:     strconv.FormatInt(org.ID, 10),
		Metadata:       map[string]any{"changes": changed},
	})

	return org, nil
}

func (s *organizationService) Delete(ctx context.Context, actorID, orgID int64, confirmation string) error {
	access, err := s.guard.RequireRole(ctx, actorID, orgID, model.RoleOwner)
	if err != nil {
		return err
	}
	org := access.Organization

	if confirmation != DeleteConfirmation {
		v := domain.NewValidationError()
		v.Add("confirmation", fmt.Sprintf("must be %q", DeleteConfirmation))
		return v
	}

	active, err := s.subscriptions.CountActive(ctx, orgID)
	if err != nil {
		return fmt.Errorf("checking subscriptions: %w", err)
	}
	if active > 0 {
		return fmt.Errorf("%w: organization has %d active subscription(s)", domain.ErrInvalidOperation, active)
	}

	if err := s.orgStore.Delete(ctx, orgID); err != nil {
		return storeErr("deleting organization", err)
	}

	if org.ExternalID != nil {
		if err := s.provider.DeleteOrganization(ctx, *org.ExternalID); err != nil {
			slog.WarnContext(ctx, "failed to delete organization at identity provider",
				"error", err,
				"organization_id", orgID)
		}
	}

	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: orgID,
		ActorID:        &actorID,
		Action:         model.AuditOrganizationDeleted,
		ResourceType:   model.ResourceOrganization,
		ResourceID:     strconv.FormatInt(orgID, 10),
		Metadata: map[string]any{
			"organizationName": org.Name,
			"slug":             org.Slug,
		},
	})

	slog.InfoContext(ctx, "organization deleted", "organization_id", orgID, "user_id", actorID)
	return nil
}

// ensureSlug derives a slug from name and appends -1..-20 until one is free.
func (s *organizationService) ensureSlug(ctx context.Context, name string) (string, error) {
	base, err := common.Slugify(name, "org")
	if err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}
	if len(base) < common.MinSlugLen {
		base += "-org"
	}

	// Fast path
	if _, err := s.orgStore.GetBySlug(ctx, base); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return base, nil
		}
		return "", fmt.Errorf("checking slug availability: %w", err)
	}

	// Leave room for the suffix
	if len(base) > common.MaxSlugLen-3 {
		base = strings.TrimRight(base[:common.MaxSlugLen-3], "-")
	}

	for i := 1; i <= maxSlugSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		_, err := s.orgStore.GetBySlug(ctx, candidate)
		if errors.Is(err, store.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking slug availability: %w", err)
		}
	}

	return "", fmt.Errorf("%w: unable to find available slug for %q", domain.ErrConflict, base)
}

func (s *organizationService) cleanDescription(description *string) *string {
	if description == nil {
		return nil
	}
	return nilIfEmpty(strings.TrimSpace(s.sanitizer.Sanitize(*description)))
}

func validateOrgName(v *domain.ValidationError, name string) {
	if n := utf8.RuneCountInString(name); n < minOrgNameLen || n > maxOrgNameLen {
		v.Add("name", fmt.Sprintf("must be %d-%d characters", minOrgNameLen, maxOrgNameLen))
	}
}

func validateDescription(v *domain.ValidationError, description *string) {
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLen {
		v.Add("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}
}
