package handler

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/service"
)

type InvitationHandler struct {
	invService  service.InvitationService
	adminAPIKey string
}

func NewInvitationHandler(invService service.InvitationService, adminAPIKey string) *InvitationHandler {
	return &InvitationHandler{
		invService:  invService,
		adminAPIKey: adminAPIKey,
	}
}

// Validate checks an invitation token (public endpoint).
func (h *InvitationHandler) Validate(c *gin.Context) {
	ctx := c.Request.Context()

	token := c.Query("token")
	if token == "" {
		badRequest(c, "token is required")
		return
	}

	inv, err := h.invService.ValidateToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found", "code": "not_found"})
		case errors.Is(err, service.ErrInviteExpired):
			c.JSON(http.StatusGone, gin.H{"error": "invitation has expired", "code": "expired"})
		case errors.Is(err, service.ErrInviteAlreadyUsed):
			c.JSON(http.StatusGone, gin.H{"error": "invitation has already been used", "code": "already_used"})
		case errors.Is(err, service.ErrInviteRevoked):
			c.JSON(http.StatusGone, gin.H{"error": "invitation has been revoked", "code": "revoked"})
		default:
			slog.ErrorContext(ctx, "failed to validate invitation", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ValidateInvitationResponse{
		Email:     inv.Email,
		Role:      inv.Role,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		Valid:     true,
	})
}

// List returns the organization's pending invitations.
func (h *InvitationHandler) List(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}

	invitations, err := h.invService.ListPending(c.Request.Context(), actorID(c), orgID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": dto.ToInvitationResponses(invitations)})
}

func (h *InvitationHandler) Revoke(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	invitationID, ok := pathID(c, "invitationID")
	if !ok {
		return
	}

	inv, err := h.invService.Revoke(c.Request.Context(), actorID(c), orgID, invitationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationResponse(inv))
}

// ExpireStale flips overdue pending invitations to expired (admin only).
func (h *InvitationHandler) ExpireStale(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.invService.ExpireStale(ctx); err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "stale invitations expired via admin API")
	c.JSON(http.StatusOK, gin.H{"message": "expired"})
}

// RequireAdminAPIKey middleware checks for the operator key.
func (h *InvitationHandler) RequireAdminAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.adminAPIKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin API not configured"})
			return
		}

		apiKey := c.GetHeader("X-Admin-API-Key")
		if apiKey == "" {
			apiKey = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(h.adminAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}

		c.Next()
	}
}
