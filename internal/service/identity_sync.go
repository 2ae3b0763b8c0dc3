package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"tenantkit.dev/api/common"
	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

var ErrMalformedEvent = fmt.Errorf("%w: malformed identity event", domain.ErrValidation)

// ProcessResult describes what happened to one webhook delivery.
type ProcessResult string

const (
	ResultProcessed ProcessResult = "processed"
	ResultDuplicate ProcessResult = "duplicate"
	ResultIgnored   ProcessResult = "ignored"
	ResultFailed    ProcessResult = "failed"
)

type IdentityEventObserver interface {
	ObserveIdentityEvent(eventType, result string)
}

// IdentitySyncService mirrors identity provider changes into the local
// store. Every handler is an idempotent upsert or delete, so a replayed
// event leaves the store as it was.
type IdentitySyncService interface {
	Process(ctx context.Context, deliveryID string, body []byte) (ProcessResult, error)
	Apply(ctx context.Context, evt *identity.Event) error
}

type identitySyncService struct {
	users       store.UserStore
	orgs        store.OrganizationStore
	memberships store.MembershipStore
	events      store.IdentityEventStore
	txRunner    TxRunner
	observer    IdentityEventObserver
	handlers    map[string]func(context.Context, *identity.Event) error
}

func NewIdentitySyncService(
	users store.UserStore,
	orgs store.OrganizationStore,
	memberships store.MembershipStore,
	events store.IdentityEventStore,
	txRunner TxRunner,
	observer IdentityEventObserver,
) IdentitySyncService {
	s := &identitySyncService{
		users:       users,
		orgs:        orgs,
		memberships: memberships,
		events:      events,
		txRunner:    txRunner,
		observer:    observer,
	}
	s.handlers = map[string]func(context.Context, *identity.Event) error{
		identity.EventUserCreated:         s.upsertUser,
		identity.EventUserUpdated:         s.upsertUser,
		identity.EventUserDeleted:         s.deleteUser,
		identity.EventOrganizationCreated: s.upsertOrganization,
		identity.EventOrganizationUpdated: s.upsertOrganization,
		identity.EventOrganizationDeleted: s.deleteOrganization,
		identity.EventMembershipCreated:   s.upsertMembership,
		identity.EventMembershipUpdated:   s.upsertMembership,
		identity.EventMembershipDeleted:   s.deleteMembership,
	}
	return s
}

// Process records the delivery, applies it once and marks the outcome.
// A delivery id that was already processed is acknowledged without
// reapplying. Failed deliveries are retried by the provider under the same id.
func (s *identitySyncService) Process(ctx context.Context, deliveryID string, body []byte) (ProcessResult, error) {
	evt, err := identity.ParseEvent(body)
	if err != nil {
		return ResultFailed, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	kind := evt.Kind()

	if deliveryID == "" {
		deliveryID = evt.ID
	}
	if deliveryID == "" {
		return ResultFailed, fmt.Errorf("%w: missing delivery id", ErrMalformedEvent)
	}

	record, created, err := s.events.CreateOrGet(ctx, &model.IdentityEvent{
		ID:         id.New(),
		DeliveryID: deliveryID,
		EventType:  kind,
		Payload:    body,
	})
	if err != nil {
		return ResultFailed, fmt.Errorf("recording identity event: %w", err)
	}
	if !created && record.IsProcessed() {
		slog.InfoContext(ctx, "identity event already processed",
			"delivery_id", deliveryID,
			"event_type", kind)
		s.observe(kind, ResultDuplicate)
		return ResultDuplicate, nil
	}

	if _, known := s.handlers[kind]; !known {
		slog.InfoContext(ctx, "ignoring identity event", "delivery_id", deliveryID, "event_type", kind)
		if err := s.events.MarkProcessed(ctx, record.ID); err != nil {
			return ResultFailed, fmt.Errorf("marking identity event processed: %w", err)
		}
		s.observe(kind, ResultIgnored)
		return ResultIgnored, nil
	}

	if err := s.Apply(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "identity event failed",
			"error", err,
			"delivery_id", deliveryID,
			"event_type", kind)
		if markErr := s.events.MarkFailed(ctx, record.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark identity event failed", "error", markErr, "delivery_id", deliveryID)
		}
		s.observe(kind, ResultFailed)
		return ResultFailed, err
	}

	if err := s.events.MarkProcessed(ctx, record.ID); err != nil {
		return ResultFailed, fmt.Errorf("marking identity event processed: %w", err)
	}
	s.observe(kind, ResultProcessed)
	return ResultProcessed, nil
}

// Apply runs the handler for the event type. Unknown types are logged and
// ignored.
func (s *identitySyncService) Apply(ctx context.Context, evt *identity.Event) error {
	handler, ok := s.handlers[evt.Kind()]
	if !ok {
		slog.DebugContext(ctx, "no handler for identity event", "event_type", evt.Kind())
		return nil
	}

	sc := logger.StartSpan(ctx, "identity.apply")
	defer sc.End()
	sc.SetAttributes(
		attribute.String("identity.event_type", evt.Kind()),
		attribute.String("identity.event_id", evt.ID),
	)

	err := handler(sc.Context(), evt)
	sc.RecordError(err)
	return err
}

func (s *identitySyncService) upsertUser(ctx context.Context, evt *identity.Event) error {
	var data identity.UserData
	if err := evt.Decode(&data); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	u := data.User()
	email, ok := normalizeEmail(u.Email)
	if u.ExternalID == "" || !ok {
		return fmt.Errorf("%w: user event without id or valid email", ErrMalformedEvent)
	}

	externalID := u.ExternalID
	user := &model.User{
		ID:        id.New(),
		WorkOSID:  &externalID,
		Email:     email,
		Name:      u.DisplayName(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: nilIfEmpty(u.ProfilePictureURL),
	}
	if err := s.users.UpsertByWorkOSID(ctx, user); err != nil {
		// The email belongs to a row with another provider id. Retrying the
		// delivery cannot fix that, so the event is acknowledged and dropped.
		if errors.Is(err, store.ErrConflict) {
			slog.WarnContext(ctx, "dropping user event, email already bound to another provider user",
				"workos_id", externalID,
				"error", err)
			return nil
		}
		return fmt.Errorf("upserting user %s: %w", externalID, err)
	}

	slog.InfoContext(ctx, "user synced", "user_id", user.ID, "workos_id", externalID)
	return nil
}

func (s *identitySyncService) deleteUser(ctx context.Context, evt *identity.Event) error {
	var data identity.UserData
	if err := evt.Decode(&data); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if data.ID == "" {
		return fmt.Errorf("%w: user event without id", ErrMalformedEvent)
	}

	var orphaned []int64
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		user, err := sp.Users().GetByWorkOSID(ctx, data.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("getting user: %w", err)
		}

		owned, err := sp.Memberships().ListOwnedOrganizationIDs(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("listing owned organizations: %w", err)
		}

		if _, err := sp.Users().DeleteByWorkOSID(ctx, data.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("deleting user: %w", err)
		}

		for _, orgID := range owned {
			n, err := sp.Memberships().CountOwners(ctx, orgID)
			if err != nil {
				return fmt.Errorf("counting owners: %w", err)
			}
			if n == 0 {
				orphaned = append(orphaned, orgID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, orgID := range orphaned {
		slog.WarnContext(ctx, "organization left without an owner",
			"organization_id", orgID,
			"workos_id", data.ID)
	}
	slog.InfoContext(ctx, "user deleted by sync", "workos_id", data.ID)
	return nil
}

func (s *identitySyncService) upsertOrganization(ctx context.Context, evt *identity.Event) error {
	var data identity.OrganizationData
	if err := evt.Decode(&data); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if data.ID == "" {
		return fmt.Errorf("%w: organization event without id", ErrMalformedEvent)
	}
	externalID := data.ID

	existing, err := s.resolveOrganization(ctx, data)
	if err != nil {
		return err
	}
	if existing != nil {
		name := strings.TrimSpace(data.Name)
		if name == "" {
			name = existing.Name
		}
		if _, err := s.orgs.Sync(ctx, existing.ID, name, &externalID); err != nil {
			return fmt.Errorf("syncing organization: %w", err)
		}
		slog.InfoContext(ctx, "organization synced", "organization_id", existing.ID, "external_id", externalID)
		return nil
	}

	name := strings.TrimSpace(data.Name)
	if name == "" {
		return fmt.Errorf("%w: organization event without name", ErrMalformedEvent)
	}
	slug := data.Slug
	if slug == "" || !common.ValidSlug(slug) {
		slug, err = common.Slugify(name, "org")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	}

	org := &model.Organization{
		ID:         id.New(),
		ExternalID: &externalID,
		Slug:       slug,
		Name:       name,
	}
	if err := s.orgs.UpsertBySlug(ctx, org); err != nil {
		return fmt.Errorf("upserting organization: %w", err)
	}
	slog.InfoContext(ctx, "organization synced", "organization_id", org.ID, "external_id", externalID)
	return nil
}

func (s *identitySyncService) deleteOrganization(ctx context.Context, evt *identity.Event) error {
	var data identity.OrganizationData
	if err := evt.Decode(&data); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	org, err := s.resolveOrganization(ctx, data)
	if err != nil {
		return err
	}
	if org == nil {
		slog.InfoContext(ctx, "organization already gone", "external_id", data.ID)
		return nil
	}

	if err := s.orgs.Delete(ctx, org.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting organization: %w", err)
	}
	slog.InfoContext(ctx, "organization deleted by sync", "organization_id", org.ID, "external_id", data.ID)
	return nil
}

func (s *identitySyncService) upsertMembership(ctx context.Context, evt *identity.Event) error {
	var data identity.MembershipData
	if err := evt.Decode(&data); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	user, org, err := s.resolveMember(ctx, data)
	if err != nil || user == nil || org == nil {
		return err
	}

	role, known := identity.RoleFromExternal(data.Role.Slug)
	if !known {
		slog.WarnContext(ctx, "unknown provider role, using MEMBER",
			"role", data.Role.Slug,
			"organization_id", org.ID,
			"user_id", user.ID)
	}

	var joinedAt *time.Time
	if !strings.EqualFold(data.Status, "pending") {
		now := time.Now()
		joinedAt = &now
	}

	existing, err := s.memberships.GetByUserAndOrg(ctx, user.ID, org.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("getting membership: %w", err)
	}
	if existing != nil && identity.RoleToExternal(existing.Role) == identity.RoleToExternal(role) {
		// The provider only knows admin and member. An echo of our own
		// outbound change must not flatten VIEWER into MEMBER.
		if existing.IsPending() && joinedAt != nil {
			if _, err := s.memberships.MarkJoined(ctx, existing.ID); err != nil {
				return fmt.Errorf("marking membership joined: %w", err)
			}
		}
		return nil
	}

	m := &model.Membership{
		ID:             id.New(),
		UserID:         user.ID,
		OrganizationID: org.ID,
		Role:           role,
		JoinedAt:       joinedAt,
	}
	if err := s.memberships.Upsert(ctx, m); err != nil {
		return fmt.Errorf("upserting membership: %w", err)
	}

	slog.InfoContext(ctx, "membership synced",
		"membership_id", m.ID,
		"organization_id", org.ID,
		"user_id", user.ID,
		"role", m.Role)
	return nil
}

func (s *identitySyncService) deleteMembership(ctx context.Context, evt *identity.Event) error {
	var data identity.MembershipData
	if err := evt.Decode(&data); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	user, org, err := s.resolveMember(ctx, data)
	if err != nil || user == nil || org == nil {
		return err
	}

	var removed bool
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		var err error
		removed, err = sp.Memberships().RemoveByUserAndOrg(ctx, user.ID, org.ID)
		return err
	})
	if errors.Is(err, store.ErrLastOwner) {
		slog.WarnContext(ctx, "refusing to remove the last owner",
			"organization_id", org.ID,
			"user_id", user.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("removing membership: %w", err)
	}

	slog.InfoContext(ctx, "membership removed by sync",
		"organization_id", org.ID,
		"user_id", user.ID,
		"removed", removed)
	return nil
}

// resolveMember finds both sides of a membership event. Either being nil
// means the event is dropped.
func (s *identitySyncService) resolveMember(ctx context.Context, data identity.MembershipData) (*model.User, *model.Organization, error) {
	userExt := data.UserExternalID()
	if userExt == "" {
		return nil, nil, fmt.Errorf("%w: membership event without user", ErrMalformedEvent)
	}

	user, err := s.users.GetByWorkOSID(ctx, userExt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "membership event for unknown user", "workos_id", userExt)
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("getting user: %w", err)
	}

	orgData := data.Org()
	org, err := s.resolveOrganization(ctx, orgData)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		slog.WarnContext(ctx, "membership event for unknown organization", "external_id", orgData.ID)
		return nil, nil, nil
	}
	return user, org, nil
}

// resolveOrganization looks the organization up by external id, then slug,
// then name. Returns nil when none match.
func (s *identitySyncService) resolveOrganization(ctx context.Context, data identity.OrganizationData) (*model.Organization, error) {
	lookups := []struct {
		key string
		get func(context.Context, string) (*model.Organization, error)
	}{
		{data.ID, s.orgs.GetByExternalID},
		{data.Slug, s.orgs.GetBySlug},
		{strings.TrimSpace(data.Name), s.orgs.GetByName},
	}
	for _, l := range lookups {
		if l.key == "" {
			continue
		}
		org, err := l.get(ctx, l.key)
		if err == nil {
			return org, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("resolving organization: %w", err)
		}
	}
	return nil, nil
}

func (s *identitySyncService) observe(kind string, result ProcessResult) {
	if s.observer != nil {
		s.observer.ObserveIdentityEvent(kind, string(result))
	}
}
