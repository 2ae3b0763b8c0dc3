package service

import (
	"tenantkit.dev/api/core/config"
	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/metrics"
	"tenantkit.dev/api/internal/store"
)

type ServicesConfig struct {
	Stores        *store.Stores
	TxRunner      TxRunner
	Provider      identity.Provider
	Authenticator identity.Authenticator
	Metrics       *metrics.Collector
	RateLimit     config.RateLimitConfig
	DashboardURL  string
}

// Services builds every service over one set of stores. The guard and
// recorder are shared.
type Services struct {
	cfg      ServicesConfig
	guard    *authz.Guard
	recorder audit.Recorder
}

func NewServices(cfg ServicesConfig) *Services {
	stores := cfg.Stores
	return &Services{
		cfg:      cfg,
		guard:    authz.NewGuard(stores.Memberships(), stores.Organizations(), cfg.Metrics),
		recorder: audit.NewRecorder(stores.AuditLogs(), cfg.Metrics),
	}
}

func (s *Services) Guard() authz.Authorizer {
	return s.guard
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.cfg.Stores.Users(), s.cfg.Stores.Sessions(), s.cfg.Authenticator)
}

func (s *Services) Account() AccountService {
	return NewAccountService(
		s.cfg.Stores.Users(),
		s.cfg.Stores.Memberships(),
		s.cfg.TxRunner,
		s.recorder,
		s.cfg.Provider,
	)
}

func (s *Services) Organizations() OrganizationService {
	return NewOrganizationService(
		s.cfg.Stores.Organizations(),
		s.cfg.Stores.Memberships(),
		s.cfg.Stores.Subscriptions(),
		s.cfg.TxRunner,
		s.guard,
		s.recorder,
		s.cfg.Provider,
	)
}

func (s *Services) Memberships() MembershipService {
	return NewMembershipService(
		s.cfg.Stores.Memberships(),
		s.cfg.Stores.Users(),
		s.cfg.Stores.Organizations(),
		s.cfg.Stores.Invitations(),
		s.guard,
		s.recorder,
		s.cfg.Provider,
		s.cfg.DashboardURL,
	)
}

func (s *Services) Invitations() InvitationService {
	return NewInvitationService(
		s.cfg.Stores.Invitations(),
		s.cfg.Stores.Organizations(),
		s.cfg.TxRunner,
		s.guard,
		s.recorder,
		s.cfg.Provider,
	)
}

func (s *Services) APIKeys() APIKeyService {
	return NewAPIKeyService(s.cfg.Stores.APIKeys(), s.guard, s.recorder, s.cfg.RateLimit)
}

func (s *Services) Monitors() MonitorService {
	return NewMonitorService(s.cfg.Stores.Monitors(), s.guard, s.recorder)
}

func (s *Services) Subscriptions() SubscriptionService {
	return NewSubscriptionService(s.cfg.Stores.Subscriptions(), s.guard)
}

func (s *Services) AuditLogs() AuditLogService {
	return NewAuditLogService(s.cfg.Stores.AuditLogs(), s.guard)
}

func (s *Services) IdentitySync() IdentitySyncService {
	return NewIdentitySyncService(
		s.cfg.Stores.Users(),
		s.cfg.Stores.Organizations(),
		s.cfg.Stores.Memberships(),
		s.cfg.Stores.IdentityEvents(),
		s.cfg.TxRunner,
		s.cfg.Metrics,
	)
}
