package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/service"
)

type AuditLogHandler struct {
	auditService service.AuditLogService
}

func NewAuditLogHandler(auditService service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

// List pages newest first. ?before= takes the next_before of the previous page.
func (h *AuditLogHandler) List(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	var before int64
	if raw := c.Query("before"); raw != "" {
		v, err := id.Parse(raw)
		if err != nil {
			badRequest(c, "invalid before cursor")
			return
		}
		before = v
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			badRequest(c, "invalid limit")
			return
		}
		limit = v
	}

	page, err := h.auditService.List(c.Request.Context(), actorID(c), orgID, before, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditLogPageResponse(page.Entries, page.NextBefore))
}
