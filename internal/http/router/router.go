package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"tenantkit.dev/api/internal/http/handler"
	"tenantkit.dev/api/internal/http/handler/webhook"
	"tenantkit.dev/api/internal/http/middleware"
	"tenantkit.dev/api/internal/metrics"
	"tenantkit.dev/api/internal/ratelimit"
	"tenantkit.dev/api/internal/service"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
	AdminAPIKey  string

	Gatherer     prometheus.Gatherer
	Metrics      *metrics.Collector
	Limiter      ratelimit.Limiter
	Verifier     webhook.Verifier // nil disables the identity webhook
	HealthChecks map[string]handler.Check
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	health := handler.NewHealthHandler(cfg.HealthChecks)
	router.GET("/health", health.Live)
	router.GET("/ready", health.Ready)

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	if cfg.Verifier != nil {
		webhookHandler := webhook.NewIdentityWebhookHandler(services.IdentitySync(), cfg.Verifier)
		WebhookRouter(router.Group("/webhooks"), webhookHandler)
	}

	requireSession := middleware.RequireAuth(services.Auth(), cfg.IsProduction)

	authHandler := handler.NewAuthHandler(services.Auth(), services.Invitations(), cfg.DashboardURL, cfg.IsProduction)
	accountHandler := handler.NewAccountHandler(services.Account(), cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, accountHandler, requireSession)

	invitationHandler := handler.NewInvitationHandler(services.Invitations(), cfg.AdminAPIKey)
	InvitationRouter(router.Group("/invites"), router.Group("/admin/invites"), invitationHandler)

	v1 := router.Group("/api/v1")
	{
		orgs := v1.Group("/orgs", requireSession)
		OrganizationRouter(orgs, OrganizationHandlers{
			Organizations: handler.NewOrganizationHandler(services.Organizations()),
			Members:       handler.NewMemberHandler(services.Memberships()),
			Invitations:   invitationHandler,
			APIKeys:       handler.NewAPIKeyHandler(services.APIKeys()),
			Subscriptions: handler.NewSubscriptionHandler(services.Subscriptions()),
			AuditLogs:     handler.NewAuditLogHandler(services.AuditLogs()),
		})

		keys := middleware.NewAPIKeyAuth(services.APIKeys(), cfg.Limiter, cfg.Metrics)
		monitors := v1.Group("/orgs/:orgID/monitors", middleware.RequirePrincipal(services.Auth(), keys, cfg.IsProduction))
		MonitorRouter(monitors, handler.NewMonitorHandler(services.Monitors()))
	}
}
