package router

import (
	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/handler"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, account *handler.AccountHandler, requireSession gin.HandlerFunc) {
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
	rg.GET("/url", h.GetAuthURL)
	rg.POST("/exchange", h.Exchange)

	authed := rg.Group("", requireSession)
	{
		authed.GET("/me", h.Me)
		authed.PATCH("/me", account.UpdateProfile)
		authed.DELETE("/me", account.Delete)
		authed.POST("/logout", h.Logout)
	}
}
