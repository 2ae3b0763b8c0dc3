package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/http/middleware"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Specific sentinels come before the classes they wrap.
var errorMappings = []errorMapping{
	{service.ErrInviteExpired, http.StatusGone, "invite_expired", "invitation has expired"},
	{service.ErrInviteAlreadyUsed, http.StatusGone, "invite_used", "invitation has already been used"},
	{service.ErrInviteRevoked, http.StatusGone, "invite_revoked", "invitation has been revoked"},
	{service.ErrInviteNotFound, http.StatusNotFound, "invite_not_found", "invitation not found"},
	{service.ErrEmailMismatch, http.StatusForbidden, "email_mismatch", "authenticated email does not match invitation"},
	{service.ErrInvitePendingExists, http.StatusConflict, "invite_pending", "a pending invitation already exists for this email"},
	{service.ErrAlreadyMember, http.StatusConflict, "already_member", "already a member of this organization"},
	{service.ErrSoleOwner, http.StatusConflict, "sole_owner", "transfer or delete owned organizations before deleting the account"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "not authenticated"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden", "insufficient permissions"},
	{domain.ErrConflict, http.StatusConflict, "conflict", "resource already exists or was modified concurrently"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found", "resource not found"},
	{domain.ErrInvalidOperation, http.StatusBadRequest, "invalid_operation", "operation not allowed"},
	{domain.ErrUpstream, http.StatusBadGateway, "upstream_error", "upstream dependency unavailable, retry later"},
}

// respondError writes the JSON body for err. Anything outside the domain
// taxonomy is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"code":   "validation_failed",
			"fields": verr.Fields,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status == http.StatusBadGateway {
				slog.WarnContext(c.Request.Context(), "upstream failure", "error", err)
			}
			c.JSON(m.status, gin.H{"error": m.message, "code": m.code})
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), "request failed", "error", err, "route", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "bad_request"})
}

// pathID parses a snowflake id path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// actorID is the signed-in user. Routes using it sit behind RequireAuth.
func actorID(c *gin.Context) int64 {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return 0
}

func currentUser(c *gin.Context) *model.User {
	return middleware.GetUser(c.Request.Context())
}
