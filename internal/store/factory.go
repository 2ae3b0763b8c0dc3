package store

import (
	"tenantkit.dev/api/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) Organizations() OrganizationStore {
	return newOrganizationStore(s.queries)
}

func (s *Stores) Memberships() MembershipStore {
	return newMembershipStore(s.queries)
}

func (s *Stores) Invitations() InvitationStore {
	return newInvitationStore(s.queries)
}

func (s *Stores) APIKeys() APIKeyStore {
	return newAPIKeyStore(s.queries)
}

func (s *Stores) AuditLogs() AuditLogStore {
	return newAuditLogStore(s.queries)
}

func (s *Stores) Monitors() MonitorStore {
	return newMonitorStore(s.queries)
}

func (s *Stores) Subscriptions() SubscriptionStore {
	return newSubscriptionStore(s.queries)
}

func (s *Stores) IdentityEvents() IdentityEventStore {
	return newIdentityEventStore(s.queries)
}
