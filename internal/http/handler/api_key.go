package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/service"
)

type APIKeyHandler struct {
	keyService service.APIKeyService
}

func NewAPIKeyHandler(keyService service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keyService: keyService}
}

func (h *APIKeyHandler) List(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	keys, err := h.keyService.List(c.Request.Context(), actorID(c), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_keys": dto.ToAPIKeyResponses(keys)})
}

// Create returns the plaintext key. It is shown exactly once.
func (h *APIKeyHandler) Create(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: name and permissions are required")
		return
	}

	params := service.CreateAPIKeyParams{
		Name:        req.Name,
		Permissions: req.Permissions,
		RateLimit:   req.RateLimit,
		ExpiresAt:   req.ExpiresAt,
	}
	if req.RateLimitWindowSeconds != nil {
		window := time.Duration(*req.RateLimitWindowSeconds) * time.Second
		params.RateLimitWindow = &window
	}

	created, err := h.keyService.Create(c.Request.Context(), actorID(c), orgID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedAPIKeyResponse{
		APIKeyResponse: *dto.ToAPIKeyResponse(created.Key),
		Key:            created.Secret,
	})
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	keyID, ok := pathID(c, "keyID")
	if !ok {
		return
	}

	if err := h.keyService.Revoke(c.Request.Context(), actorID(c), orgID, keyID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
