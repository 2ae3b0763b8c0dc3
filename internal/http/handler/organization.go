package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/service"
)

type OrganizationHandler struct {
	orgService service.OrganizationService
}

func NewOrganizationHandler(orgService service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.orgService.ListForUser(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": dto.ToUserOrganizationResponses(orgs)})
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: name is required")
		return
	}

	org, err := h.orgService.Create(c.Request.Context(), actorID(c), service.CreateOrganizationParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	org, err := h.orgService.Get(c.Request.Context(), actorID(c), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserOrganizationResponse(org))
}

func (h *OrganizationHandler) Stats(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	stats, err := h.orgService.Stats(c.Request.Context(), actorID(c), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationStatsResponse(stats))
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), actorID(c), orgID, service.UpdateOrganizationParams{
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

func (h *OrganizationHandler) Delete(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	var req dto.DeleteOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: confirmation is required")
		return
	}

	if err := h.orgService.Delete(c.Request.Context(), actorID(c), orgID, req.Confirmation); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// orgParam reads :orgID and tags the request's logs with it.
func orgParam(c *gin.Context) (int64, bool) {
	orgID, ok := pathID(c, "orgID")
	if !ok {
		return 0, false
	}
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{OrganizationID: &orgID})
	c.Request = c.Request.WithContext(ctx)
	return orgID, true
}
