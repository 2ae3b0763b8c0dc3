package router

import (
	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/handler"
)

// MonitorRouter is mounted on its own group because it accepts API keys as
// well as sessions.
func MonitorRouter(rg *gin.RouterGroup, h *handler.MonitorHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:monitorID", h.Get)
	rg.PATCH("/:monitorID", h.Update)
	rg.DELETE("/:monitorID", h.Delete)
}
