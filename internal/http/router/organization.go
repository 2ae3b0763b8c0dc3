package router

import (
	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/handler"
)

type OrganizationHandlers struct {
	Organizations *handler.OrganizationHandler
	Members       *handler.MemberHandler
	Invitations   *handler.InvitationHandler
	APIKeys       *handler.APIKeyHandler
	Subscriptions *handler.SubscriptionHandler
	AuditLogs     *handler.AuditLogHandler
}

// OrganizationRouter mounts everything under /orgs that needs a session.
func OrganizationRouter(rg *gin.RouterGroup, h OrganizationHandlers) {
	rg.GET("", h.Organizations.List)
	rg.POST("", h.Organizations.Create)

	org := rg.Group("/:orgID")
	{
		org.GET("", h.Organizations.Get)
		org.PATCH("", h.Organizations.Update)
		org.DELETE("", h.Organizations.Delete)
		org.GET("/stats", h.Organizations.Stats)

		org.GET("/members", h.Members.List)
		org.GET("/members/pending", h.Members.ListPending)
		org.POST("/members", h.Members.Invite)
		org.PATCH("/members/:memberID", h.Members.UpdateRole)
		org.DELETE("/members/:memberID", h.Members.Remove)
		org.POST("/membership/accept", h.Members.Accept)

		org.GET("/invitations", h.Invitations.List)
		org.DELETE("/invitations/:invitationID", h.Invitations.Revoke)

		org.GET("/api-keys", h.APIKeys.List)
		org.POST("/api-keys", h.APIKeys.Create)
		org.DELETE("/api-keys/:keyID", h.APIKeys.Revoke)

		org.GET("/subscriptions", h.Subscriptions.List)
		org.GET("/audit-logs", h.AuditLogs.List)
	}
}
