package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

type contextKey string

const (
	SessionCookieName = "tenantkit_session"
	SessionIDHeader   = "X-Session-ID"

	userContextKey      contextKey = "user"
	sessionIDContextKey contextKey = "session_id"
	apiKeyContextKey    contextKey = "api_key"
)

// SessionValidator is the slice of service.AuthService the middleware needs.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID int64) (*model.User, error)
}

// RequireAuth resolves the session from the cookie or the X-Session-ID header
// the dashboard forwards, and aborts with 401 when it is missing or stale.
func RequireAuth(sessions SessionValidator, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticateSession(c, sessions, secureCookies) {
			return
		}
		c.Next()
	}
}

func authenticateSession(c *gin.Context, sessions SessionValidator, secureCookies bool) bool {
	ctx := c.Request.Context()

	sessionID, ok := SessionIDFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated", "code": "unauthorized"})
		return false
	}

	user, err := sessions.ValidateSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			ClearSessionCookie(c, secureCookies)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired", "code": "unauthorized"})
			return false
		}
		slog.ErrorContext(ctx, "failed to validate session", "error", err, "session_id", sessionID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return false
	}

	ctx = context.WithValue(ctx, userContextKey, user)
	ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID})
	c.Request = c.Request.WithContext(ctx)
	return true
}

// SessionIDFromRequest prefers the cookie and falls back to the header.
func SessionIDFromRequest(c *gin.Context) (int64, bool) {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		raw = c.GetHeader(SessionIDHeader)
	}
	if raw == "" {
		return 0, false
	}
	sessionID, err := id.Parse(raw)
	if err != nil {
		return 0, false
	}
	return sessionID, true
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

func GetSessionID(ctx context.Context) int64 {
	sessionID, _ := ctx.Value(sessionIDContextKey).(int64)
	return sessionID
}

func GetAPIKey(ctx context.Context) *model.APIKey {
	key, _ := ctx.Value(apiKeyContextKey).(*model.APIKey)
	return key
}

// GetPrincipal returns whoever the auth middleware resolved. An API key wins
// over a session; the zero Principal means nobody is authenticated.
func GetPrincipal(ctx context.Context) authz.Principal {
	if key := GetAPIKey(ctx); key != nil {
		return authz.KeyPrincipal(key)
	}
	if user := GetUser(ctx); user != nil {
		return authz.UserPrincipal(user.ID)
	}
	return authz.Principal{}
}

var _ SessionValidator = (service.AuthService)(nil)
