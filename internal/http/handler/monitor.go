package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/http/middleware"
	"tenantkit.dev/api/internal/service"
)

// MonitorHandler serves both sessions and API keys, so it works on the
// resolved principal rather than the signed-in user.
type MonitorHandler struct {
	monitorService service.MonitorService
}

func NewMonitorHandler(monitorService service.MonitorService) *MonitorHandler {
	return &MonitorHandler{monitorService: monitorService}
}

func (h *MonitorHandler) List(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	monitors, err := h.monitorService.List(ctx, middleware.GetPrincipal(ctx), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monitors": dto.ToMonitorResponses(monitors)})
}

func (h *MonitorHandler) Get(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	monitorID, ok := pathID(c, "monitorID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	m, err := h.monitorService.Get(ctx, middleware.GetPrincipal(ctx), orgID, monitorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMonitorResponse(m))
}

func (h *MonitorHandler) Create(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	var req dto.MonitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	m, err := h.monitorService.Create(ctx, middleware.GetPrincipal(ctx), orgID, toMonitorInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMonitorResponse(m))
}

func (h *MonitorHandler) Update(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	monitorID, ok := pathID(c, "monitorID")
	if !ok {
		return
	}

	var req dto.MonitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	m, err := h.monitorService.Update(ctx, middleware.GetPrincipal(ctx), orgID, monitorID, toMonitorInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMonitorResponse(m))
}

func (h *MonitorHandler) Delete(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	monitorID, ok := pathID(c, "monitorID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.monitorService.Delete(ctx, middleware.GetPrincipal(ctx), orgID, monitorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toMonitorInput(req dto.MonitorRequest) service.MonitorInput {
	return service.MonitorInput{
		Name:            req.Name,
		URL:             req.URL,
		Method:          req.Method,
		Headers:         req.Headers,
		ExpectedStatus:  req.ExpectedStatus,
		TimeoutSeconds:  req.TimeoutSeconds,
		IntervalSeconds: req.IntervalSeconds,
		IsActive:        req.IsActive,
	}
}
