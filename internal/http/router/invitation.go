package router

import (
	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/handler"
)

// InvitationRouter sets up the routes outside an organization:
// /invites/validate is public (for the dashboard to check tokens) and
// /admin/invites/* requires the admin API key.
func InvitationRouter(rg *gin.RouterGroup, adminRg *gin.RouterGroup, h *handler.InvitationHandler) {
	rg.GET("/validate", h.Validate)

	admin := adminRg.Group("")
	admin.Use(h.RequireAdminAPIKey())
	{
		admin.POST("/expire", h.ExpireStale)
	}
}
