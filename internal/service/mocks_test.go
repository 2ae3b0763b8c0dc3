package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
	"tenantkit.dev/api/internal/store"
)

// world is an in-memory database. Its stores enforce the same conditional
// rules as the SQL ones so invariants can be checked after any sequence.
type world struct {
	mu sync.Mutex

	users         map[int64]*model.User
	orgs          map[int64]*model.Organization
	memberships   map[int64]*model.Membership
	invitations   map[int64]*model.Invitation
	apiKeys       map[int64]*model.APIKey
	auditLogs     []model.AuditLog
	monitors      map[int64]*model.Monitor
	subscriptions map[int64][]model.Subscription
	events        map[string]*model.IdentityEvent
	sessions      map[int64]*model.Session

	auditErr  error
	memberErr error // returned by membership writes and listings when set
}

func newWorld() *world {
	return &world{
		users:         map[int64]*model.User{},
		orgs:          map[int64]*model.Organization{},
		memberships:   map[int64]*model.Membership{},
		invitations:   map[int64]*model.Invitation{},
		apiKeys:       map[int64]*model.APIKey{},
		monitors:      map[int64]*model.Monitor{},
		subscriptions: map[int64][]model.Subscription{},
		events:        map[string]*model.IdentityEvent{},
		sessions:      map[int64]*model.Session{},
	}
}

func (w *world) Users() store.UserStore                 { return &memUserStore{w} }
func (w *world) Organizations() store.OrganizationStore { return &memOrganizationStore{w} }
func (w *world) Memberships() store.MembershipStore     { return &memMembershipStore{w} }
func (w *world) Invitations() store.InvitationStore     { return &memInvitationStore{w} }
func (w *world) APIKeys() store.APIKeyStore             { return &memAPIKeyStore{w} }
func (w *world) Sessions() store.SessionStore           { return &memSessionStore{w} }
func (w *world) AuditLogs() *memAuditLogStore           { return &memAuditLogStore{w} }
func (w *world) Monitors() store.MonitorStore           { return &memMonitorStore{w} }
func (w *world) Subscriptions() store.SubscriptionStore { return &memSubscriptionStore{w} }
func (w *world) IdentityEvents() store.IdentityEventStore {
	return &memIdentityEventStore{w}
}

func (w *world) guard() *authz.Guard {
	return authz.NewGuard(w.Memberships(), w.Organizations(), nil)
}

func (w *world) recorder() audit.Recorder {
	return audit.NewRecorder(w.AuditLogs(), nil)
}

// Test helpers

func (w *world) addUser(id int64, email string) *model.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	workosID := "user_" + strings.Split(email, "@")[0]
	u := &model.User{ID: id, Email: email, Name: email, WorkOSID: &workosID, CreatedAt: time.Now()}
	w.users[id] = u
	return copyUser(u)
}

func (w *world) addOrg(id int64, slug string) *model.Organization {
	w.mu.Lock()
	defer w.mu.Unlock()
	ext := "org_" + slug
	o := &model.Organization{ID: id, Slug: slug, Name: slug, ExternalID: &ext, CreatedAt: time.Now()}
	w.orgs[id] = o
	c := *o
	return &c
}

func (w *world) addMember(id, userID, orgID int64, role model.Role) *model.Membership {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	m := &model.Membership{ID: id, UserID: userID, OrganizationID: orgID, Role: role, JoinedAt: &now, CreatedAt: now}
	w.memberships[id] = m
	c := *m
	return &c
}

func (w *world) membership(userID, orgID int64) *model.Membership {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range w.memberships {
		if m.UserID == userID && m.OrganizationID == orgID {
			c := *m
			return &c
		}
	}
	return nil
}

func (w *world) owners(orgID int64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, m := range w.memberships {
		if m.OrganizationID == orgID && m.Role == model.RoleOwner {
			n++
		}
	}
	return n
}

func (w *world) audit() []model.AuditLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.AuditLog, len(w.auditLogs))
	copy(out, w.auditLogs)
	return out
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

// Users

type memUserStore struct{ w *world }

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if u, ok := s.w.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, u := range s.w.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) GetByWorkOSID(_ context.Context, workosID string) (*model.User, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, u := range s.w.users {
		if u.WorkOSID != nil && *u.WorkOSID == workosID {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) UpsertByWorkOSID(_ context.Context, user *model.User) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, u := range s.w.users {
		if u.WorkOSID != nil && user.WorkOSID != nil && *u.WorkOSID == *user.WorkOSID {
			u.Email, u.Name, u.AvatarURL = user.Email, user.Name, user.AvatarURL
			u.FirstName, u.LastName = user.FirstName, user.LastName
			u.UpdatedAt = time.Now()
			*user = *u
			return nil
		}
	}
	for _, u := range s.w.users {
		if u.Email == user.Email {
			return store.ErrConflict
		}
	}
	stored := copyUser(user)
	stored.CreatedAt = time.Now()
	s.w.users[user.ID] = stored
	*user = *stored
	return nil
}

func (s *memUserStore) Update(_ context.Context, user *model.User) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	u, ok := s.w.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	u.Name, u.AvatarURL = user.Name, user.AvatarURL
	u.FirstName, u.LastName = user.FirstName, user.LastName
	u.UpdatedAt = time.Now()
	*user = *u
	return nil
}

func (s *memUserStore) DeleteByWorkOSID(_ context.Context, workosID string) (int64, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for id, u := range s.w.users {
		if u.WorkOSID != nil && *u.WorkOSID == workosID {
			delete(s.w.users, id)
			for mid, m := range s.w.memberships {
				if m.UserID == id {
					delete(s.w.memberships, mid)
				}
			}
			return id, nil
		}
	}
	return 0, store.ErrNotFound
}

// Organizations

type memOrganizationStore struct{ w *world }

func (s *memOrganizationStore) find(match func(*model.Organization) bool) (*model.Organization, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, o := range s.w.orgs {
		if match(o) {
			c := *o
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memOrganizationStore) GetByID(_ context.Context, id int64) (*model.Organization, error) {
	return s.find(func(o *model.Organization) bool { return o.ID == id })
}

func (s *memOrganizationStore) GetBySlug(_ context.Context, slug string) (*model.Organization, error) {
	return s.find(func(o *model.Organization) bool { return o.Slug == slug })
}

func (s *memOrganizationStore) GetByName(_ context.Context, name string) (*model.Organization, error) {
	return s.find(func(o *model.Organization) bool { return strings.EqualFold(o.Name, name) })
}

func (s *memOrganizationStore) GetByExternalID(_ context.Context, externalID string) (*model.Organization, error) {
	return s.find(func(o *model.Organization) bool { return o.ExternalID != nil && *o.ExternalID == externalID })
}

func (s *memOrganizationStore) Create(_ context.Context, org *model.Organization) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, o := range s.w.orgs {
		if o.Slug == org.Slug {
			return store.ErrConflict
		}
	}
	c := *org
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	s.w.orgs[org.ID] = &c
	*org = c
	return nil
}

func (s *memOrganizationStore) Update(_ context.Context, org *model.Organization) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, ok := s.w.orgs[org.ID]
	if !ok {
		return store.ErrNotFound
	}
	o.Name, o.Description, o.Settings, o.AvatarURL = org.Name, org.Description, org.Settings, org.AvatarURL
	*org = *o
	return nil
}

func (s *memOrganizationStore) UpsertBySlug(_ context.Context, org *model.Organization) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, o := range s.w.orgs {
		if o.Slug == org.Slug {
			o.Name = org.Name
			if org.ExternalID != nil {
				o.ExternalID = org.ExternalID
			}
			*org = *o
			return nil
		}
	}
	c := *org
	s.w.orgs[org.ID] = &c
	return nil
}

func (s *memOrganizationStore) Sync(_ context.Context, id int64, name string, externalID *string) (*model.Organization, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	o, ok := s.w.orgs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.Name = name
	if externalID != nil {
		o.ExternalID = externalID
	}
	c := *o
	return &c, nil
}

func (s *memOrganizationStore) Delete(_ context.Context, id int64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if _, ok := s.w.orgs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.w.orgs, id)
	for mid, m := range s.w.memberships {
		if m.OrganizationID == id {
			delete(s.w.memberships, mid)
		}
	}
	return nil
}

func (s *memOrganizationStore) ListByUser(_ context.Context, userID int64) ([]model.Organization, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []model.Organization
	for _, m := range s.w.memberships {
		if m.UserID == userID && !m.IsPending() {
			if o, ok := s.w.orgs[m.OrganizationID]; ok {
				out = append(out, *o)
			}
		}
	}
	return out, nil
}

func (s *memOrganizationStore) Stats(_ context.Context, orgID int64, membersSince, activitySince time.Time) (*model.OrganizationStats, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	stats := &model.OrganizationStats{}
	for _, m := range s.w.memberships {
		if m.OrganizationID != orgID {
			continue
		}
		if m.IsPending() {
			stats.PendingMembers++
			continue
		}
		stats.TotalMembers++
		if !m.JoinedAt.Before(membersSince) {
			stats.NewMembersThisMonth++
		}
	}
	for _, k := range s.w.apiKeys {
		if k.OrganizationID == orgID {
			stats.TotalAPIKeys++
			if k.IsActive {
				stats.ActiveAPIKeys++
			}
		}
	}
	for _, m := range s.w.monitors {
		if m.OrganizationID == orgID {
			stats.TotalMonitors++
		}
	}
	for _, e := range s.w.auditLogs {
		if e.OrganizationID == orgID && !e.CreatedAt.Before(activitySince) {
			stats.RecentActivity++
		}
	}
	return stats, nil
}

// Memberships

type memMembershipStore struct{ w *world }

func (s *memMembershipStore) byPair(userID, orgID int64) *model.Membership {
	for _, m := range s.w.memberships {
		if m.UserID == userID && m.OrganizationID == orgID {
			return m
		}
	}
	return nil
}

func (s *memMembershipStore) Create(_ context.Context, m *model.Membership) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.byPair(m.UserID, m.OrganizationID) != nil {
		return store.ErrConflict
	}
	c := *m
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	s.w.memberships[m.ID] = &c
	*m = c
	return nil
}

func (s *memMembershipStore) GetByID(_ context.Context, id int64) (*model.Membership, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if m, ok := s.w.memberships[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (s *memMembershipStore) GetByUserAndOrg(_ context.Context, userID, orgID int64) (*model.Membership, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if m := s.byPair(userID, orgID); m != nil {
		c := *m
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (s *memMembershipStore) SetRole(_ context.Context, id int64, current, next model.Role) error {
	if current == model.RoleOwner || next == model.RoleOwner {
		return store.ErrOwnerImmutable
	}
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.w.memberErr != nil {
		return s.w.memberErr
	}
	m, ok := s.w.memberships[id]
	switch {
	case !ok:
		return store.ErrNotFound
	case m.Role == model.RoleOwner:
		return store.ErrOwnerImmutable
	case m.Role != current:
		return store.ErrStaleRole
	}
	m.Role = next
	m.UpdatedAt = time.Now()
	return nil
}

func (s *memMembershipStore) Remove(_ context.Context, id int64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.w.memberErr != nil {
		return s.w.memberErr
	}
	m, ok := s.w.memberships[id]
	if !ok {
		return store.ErrNotFound
	}
	if m.Role == model.RoleOwner {
		return store.ErrOwnerImmutable
	}
	delete(s.w.memberships, id)
	return nil
}

func (s *memMembershipStore) MarkJoined(_ context.Context, id int64) (*model.Membership, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m, ok := s.w.memberships[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.JoinedAt == nil {
		now := time.Now()
		m.JoinedAt = &now
	}
	c := *m
	return &c, nil
}

func (s *memMembershipStore) members(orgID int64, pendingOnly bool) []model.Member {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []model.Member
	for _, m := range s.w.memberships {
		if m.OrganizationID != orgID || (pendingOnly && !m.IsPending()) {
			continue
		}
		member := model.Member{Membership: *m}
		if u, ok := s.w.users[m.UserID]; ok {
			member.Email, member.Name = u.Email, u.Name
		}
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role.Rank() != out[j].Role.Rank() {
			return out[i].Role.Rank() < out[j].Role.Rank()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *memMembershipStore) ListByOrganization(_ context.Context, orgID int64) ([]model.Member, error) {
	if err := s.w.memberErr; err != nil {
		return nil, err
	}
	return s.members(orgID, false), nil
}

func (s *memMembershipStore) ListPending(_ context.Context, orgID int64) ([]model.Member, error) {
	return s.members(orgID, true), nil
}

func (s *memMembershipStore) ListByUser(_ context.Context, userID int64) ([]model.Membership, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []model.Membership
	for _, m := range s.w.memberships {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memMembershipStore) Upsert(_ context.Context, m *model.Membership) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if existing := s.byPair(m.UserID, m.OrganizationID); existing != nil {
		if existing.Role != model.RoleOwner {
			existing.Role = m.Role
		}
		if existing.JoinedAt == nil {
			existing.JoinedAt = m.JoinedAt
		}
		*m = *existing
		return nil
	}
	c := *m
	s.w.memberships[m.ID] = &c
	return nil
}

func (s *memMembershipStore) RemoveByUserAndOrg(_ context.Context, userID, orgID int64) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m := s.byPair(userID, orgID)
	if m == nil {
		return false, nil
	}
	if m.Role == model.RoleOwner {
		owners := 0
		for _, other := range s.w.memberships {
			if other.OrganizationID == orgID && other.Role == model.RoleOwner {
				owners++
			}
		}
		if owners <= 1 {
			return false, store.ErrLastOwner
		}
	}
	delete(s.w.memberships, m.ID)
	return true, nil
}

func (s *memMembershipStore) CountOwners(_ context.Context, orgID int64) (int64, error) {
	return int64(s.w.owners(orgID)), nil
}

func (s *memMembershipStore) ListOwnedOrganizationIDs(_ context.Context, userID int64) ([]int64, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []int64
	for _, m := range s.w.memberships {
		if m.UserID == userID && m.Role == model.RoleOwner {
			out = append(out, m.OrganizationID)
		}
	}
	return out, nil
}

// Invitations

type memInvitationStore struct{ w *world }

func (s *memInvitationStore) Create(_ context.Context, inv *model.Invitation) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	c := *inv
	c.CreatedAt = time.Now()
	s.w.invitations[inv.ID] = &c
	*inv = c
	return nil
}

func (s *memInvitationStore) find(match func(*model.Invitation) bool) (*model.Invitation, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, inv := range s.w.invitations {
		if match(inv) {
			c := *inv
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memInvitationStore) GetByID(_ context.Context, id int64) (*model.Invitation, error) {
	return s.find(func(inv *model.Invitation) bool { return inv.ID == id })
}

func (s *memInvitationStore) GetByToken(_ context.Context, token string) (*model.Invitation, error) {
	return s.find(func(inv *model.Invitation) bool { return inv.Token == token })
}

func (s *memInvitationStore) GetPendingByEmail(_ context.Context, orgID int64, email string) (*model.Invitation, error) {
	return s.find(func(inv *model.Invitation) bool {
		return inv.OrganizationID == orgID && inv.Email == email && inv.Status == model.InvitationStatusPending
	})
}

func (s *memInvitationStore) ListPending(_ context.Context, orgID int64) ([]model.Invitation, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []model.Invitation
	for _, inv := range s.w.invitations {
		if inv.OrganizationID == orgID && inv.Status == model.InvitationStatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (s *memInvitationStore) transition(id int64, to model.InvitationStatus, userID *int64) (*model.Invitation, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	inv, ok := s.w.invitations[id]
	if !ok || inv.Status != model.InvitationStatusPending {
		return nil, store.ErrNotFound
	}
	inv.Status = to
	if userID != nil {
		now := time.Now()
		inv.AcceptedBy, inv.AcceptedAt = userID, &now
	}
	c := *inv
	return &c, nil
}

func (s *memInvitationStore) Accept(_ context.Context, id int64, userID int64) (*model.Invitation, error) {
	return s.transition(id, model.InvitationStatusAccepted, &userID)
}

func (s *memInvitationStore) Revoke(_ context.Context, id int64) (*model.Invitation, error) {
	return s.transition(id, model.InvitationStatusRevoked, nil)
}

func (s *memInvitationStore) ExpireOld(_ context.Context) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, inv := range s.w.invitations {
		if inv.Status == model.InvitationStatusPending && time.Now().After(inv.ExpiresAt) {
			inv.Status = model.InvitationStatusExpired
		}
	}
	return nil
}

// API keys

type memAPIKeyStore struct{ w *world }

func (s *memAPIKeyStore) Create(_ context.Context, key *model.APIKey) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	c := *key
	c.CreatedAt = time.Now()
	s.w.apiKeys[key.ID] = &c
	*key = c
	return nil
}

func (s *memAPIKeyStore) GetByHash(_ context.Context, hash string) (*model.APIKey, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, k := range s.w.apiKeys {
		if k.KeyHash == hash {
			c := *k
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memAPIKeyStore) ListByOrganization(_ context.Context, orgID int64) ([]model.APIKey, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []model.APIKey
	for _, k := range s.w.apiKeys {
		if k.OrganizationID == orgID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (s *memAPIKeyStore) Revoke(_ context.Context, orgID, id int64) (*model.APIKey, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	k, ok := s.w.apiKeys[id]
	if !ok || k.OrganizationID != orgID || !k.IsActive {
		return nil, store.ErrNotFound
	}
	k.IsActive = false
	c := *k
	return &c, nil
}

func (s *memAPIKeyStore) TouchLastUsed(_ context.Context, id int64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if k, ok := s.w.apiKeys[id]; ok {
		now := time.Now()
		k.LastUsedAt = &now
	}
	return nil
}

func (s *memAPIKeyStore) DeactivateByUser(_ context.Context, userID int64) (int64, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var n int64
	for _, k := range s.w.apiKeys {
		if k.UserID == userID && k.IsActive {
			k.IsActive = false
			n++
		}
	}
	return n, nil
}

// Sessions

type memSessionStore struct{ w *world }

func (s *memSessionStore) GetByID(_ context.Context, id int64) (*model.Session, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if sess, ok := s.w.sessions[id]; ok {
		c := *sess
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (s *memSessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, store.ErrNotFound
	}
	return sess, nil
}

func (s *memSessionStore) Create(_ context.Context, session *model.Session) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	c := *session
	c.CreatedAt = time.Now()
	s.w.sessions[session.ID] = &c
	*session = c
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, id int64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	delete(s.w.sessions, id)
	return nil
}

func (s *memSessionStore) DeleteByUser(_ context.Context, userID int64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for id, sess := range s.w.sessions {
		if sess.UserID == userID {
			delete(s.w.sessions, id)
		}
	}
	return nil
}

func (s *memSessionStore) DeleteExpired(_ context.Context) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for id, sess := range s.w.sessions {
		if sess.IsExpired() {
			delete(s.w.sessions, id)
		}
	}
	return nil
}

// Audit logs

type memAuditLogStore struct{ w *world }

func (s *memAuditLogStore) Create(_ context.Context, entry *model.AuditLog) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.w.auditErr != nil {
		return s.w.auditErr
	}
	c := *entry
	c.CreatedAt = time.Now()
	s.w.auditLogs = append(s.w.auditLogs, c)
	return nil
}

func (s *memAuditLogStore) ListByOrganization(_ context.Context, orgID int64, beforeID int64, limit int32) ([]model.AuditLog, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []model.AuditLog
	for i := len(s.w.auditLogs) - 1; i >= 0; i-- {
		e := s.w.auditLogs[i]
		if e.OrganizationID != orgID || (beforeID != 0 && e.ID >= beforeID) {
			continue
		}
		out = append(out, e)
		if int32(len(out)) == limit {
			break
		}
	}
	return out, nil
}

// Monitors

type memMonitorStore struct{ w *world }

func (s *memMonitorStore) Create(_ context.Context, m *model.Monitor) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	c := *m
	s.w.monitors[m.ID] = &c
	return nil
}

func (s *memMonitorStore) GetByID(_ context.Context, orgID, id int64) (*model.Monitor, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m, ok := s.w.monitors[id]
	if !ok || m.OrganizationID != orgID {
		return nil, store.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (s *memMonitorStore) ListByOrganization(_ context.Context, orgID int64) ([]model.Monitor, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []model.Monitor
	for _, m := range s.w.monitors {
		if m.OrganizationID == orgID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memMonitorStore) Update(_ context.Context, m *model.Monitor) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if _, ok := s.w.monitors[m.ID]; !ok {
		return store.ErrNotFound
	}
	c := *m
	s.w.monitors[m.ID] = &c
	return nil
}

func (s *memMonitorStore) Delete(_ context.Context, orgID, id int64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m, ok := s.w.monitors[id]
	if !ok || m.OrganizationID != orgID {
		return store.ErrNotFound
	}
	delete(s.w.monitors, id)
	return nil
}

// Subscriptions

type memSubscriptionStore struct{ w *world }

func (s *memSubscriptionStore) ListByOrganization(_ context.Context, orgID int64) ([]model.Subscription, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return append([]model.Subscription(nil), s.w.subscriptions[orgID]...), nil
}

func (s *memSubscriptionStore) CountActive(_ context.Context, orgID int64) (int64, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var n int64
	for _, sub := range s.w.subscriptions[orgID] {
		if sub.Status == model.SubscriptionStatusActive {
			n++
		}
	}
	return n, nil
}

// Identity events

type memIdentityEventStore struct{ w *world }

func (s *memIdentityEventStore) CreateOrGet(_ context.Context, event *model.IdentityEvent) (*model.IdentityEvent, bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if existing, ok := s.w.events[event.DeliveryID]; ok {
		c := *existing
		return &c, false, nil
	}
	c := *event
	s.w.events[event.DeliveryID] = &c
	out := c
	return &out, true, nil
}

func (s *memIdentityEventStore) byID(id int64) *model.IdentityEvent {
	for _, e := range s.w.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *memIdentityEventStore) MarkProcessed(_ context.Context, id int64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if e := s.byID(id); e != nil {
		now := time.Now()
		e.ProcessedAt, e.Error = &now, nil
	}
	return nil
}

func (s *memIdentityEventStore) MarkFailed(_ context.Context, id int64, errMsg string) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if e := s.byID(id); e != nil {
		e.Error = &errMsg
	}
	return nil
}

// Transactions run directly against the world.

type mockTxRunner struct {
	w        *world
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return fn(m.w)
}

// Identity provider

type mockProvider struct {
	mu    sync.Mutex
	calls []string

	getUserFn                func(ctx context.Context, externalID string) (*identity.User, error)
	updateUserFn             func(ctx context.Context, externalID, firstName, lastName string) error
	deleteUserFn             func(ctx context.Context, externalID string) error
	createOrganizationFn     func(ctx context.Context, name string) (string, error)
	updateOrganizationFn     func(ctx context.Context, externalID, name string) error
	deleteOrganizationFn     func(ctx context.Context, externalID string) error
	findOrganizationByNameFn func(ctx context.Context, name string) (string, bool, error)
	createMembershipFn       func(ctx context.Context, userExt, orgExt string, role model.Role) (string, error)
	updateMembershipFn       func(ctx context.Context, membershipExt string, role model.Role) error
	deleteMembershipFn       func(ctx context.Context, membershipExt string) error
	findMembershipFn         func(ctx context.Context, userExt, orgExt string) (string, bool, error)
}

func (m *mockProvider) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockProvider) called(call string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (m *mockProvider) GetUser(ctx context.Context, externalID string) (*identity.User, error) {
	m.record("GetUser")
	if m.getUserFn != nil {
		return m.getUserFn(ctx, externalID)
	}
	return nil, errors.New("not configured")
}

func (m *mockProvider) UpdateUser(ctx context.Context, externalID, firstName, lastName string) error {
	m.record("UpdateUser")
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, externalID, firstName, lastName)
	}
	return nil
}

func (m *mockProvider) DeleteUser(ctx context.Context, externalID string) error {
	m.record("DeleteUser")
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, externalID)
	}
	return nil
}

func (m *mockProvider) CreateOrganization(ctx context.Context, name string) (string, error) {
	m.record("CreateOrganization")
	if m.createOrganizationFn != nil {
		return m.createOrganizationFn(ctx, name)
	}
	return "org_ext_" + strings.ToLower(strings.ReplaceAll(name, " ", "_")), nil
}

func (m *mockProvider) UpdateOrganization(ctx context.Context, externalID, name string) error {
	m.record("UpdateOrganization")
	if m.updateOrganizationFn != nil {
		return m.updateOrganizationFn(ctx, externalID, name)
	}
	return nil
}

func (m *mockProvider) DeleteOrganization(ctx context.Context, externalID string) error {
	m.record("DeleteOrganization")
	if m.deleteOrganizationFn != nil {
		return m.deleteOrganizationFn(ctx, externalID)
	}
	return nil
}

func (m *mockProvider) FindOrganizationByName(ctx context.Context, name string) (string, bool, error) {
	m.record("FindOrganizationByName")
	if m.findOrganizationByNameFn != nil {
		return m.findOrganizationByNameFn(ctx, name)
	}
	return "", false, nil
}

func (m *mockProvider) CreateMembership(ctx context.Context, userExt, orgExt string, role model.Role) (string, error) {
	m.record("CreateMembership")
	if m.createMembershipFn != nil {
		return m.createMembershipFn(ctx, userExt, orgExt, role)
	}
	return "om_" + userExt, nil
}

func (m *mockProvider) UpdateMembership(ctx context.Context, membershipExt string, role model.Role) error {
	m.record("UpdateMembership")
	if m.updateMembershipFn != nil {
		return m.updateMembershipFn(ctx, membershipExt, role)
	}
	return nil
}

func (m *mockProvider) DeleteMembership(ctx context.Context, membershipExt string) error {
	m.record("DeleteMembership")
	if m.deleteMembershipFn != nil {
		return m.deleteMembershipFn(ctx, membershipExt)
	}
	return nil
}

func (m *mockProvider) FindMembership(ctx context.Context, userExt, orgExt string) (string, bool, error) {
	m.record("FindMembership")
	if m.findMembershipFn != nil {
		return m.findMembershipFn(ctx, userExt, orgExt)
	}
	return "om_" + userExt, true, nil
}
