package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/ratelimit"
	"tenantkit.dev/api/internal/service"
)

const bearerPrefix = "Bearer "

type KeyAuthenticator interface {
	Authenticate(ctx context.Context, secret string) (*model.APIKey, error)
}

type RateLimitObserver interface {
	APIKeyRateLimited()
}

// APIKeyAuth authenticates "Authorization: Bearer tk_..." requests and
// applies the key's own fixed-window limit.
type APIKeyAuth struct {
	keys     KeyAuthenticator
	limiter  ratelimit.Limiter
	observer RateLimitObserver
}

// NewAPIKeyAuth builds the key middleware. A nil limiter disables rate limiting.
func NewAPIKeyAuth(keys KeyAuthenticator, limiter ratelimit.Limiter, observer RateLimitObserver) *APIKeyAuth {
	return &APIKeyAuth{keys: keys, limiter: limiter, observer: observer}
}

// BearerAPIKey extracts a tk_ secret from the Authorization header.
func BearerAPIKey(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	secret := strings.TrimSpace(header[len(bearerPrefix):])
	if !strings.HasPrefix(secret, service.APIKeyPrefix) {
		return "", false
	}
	return secret, true
}

// Require aborts unless the request carries a valid API key within its limit.
func (a *APIKeyAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret, ok := BearerAPIKey(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "api key required", "code": "unauthorized"})
			return
		}
		if !a.authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

func (a *APIKeyAuth) authenticate(c *gin.Context, secret string) bool {
	ctx := c.Request.Context()

	key, err := a.keys.Authenticate(ctx, secret)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key", "code": "unauthorized"})
			return false
		}
		slog.ErrorContext(ctx, "failed to authenticate api key", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return false
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		APIKeyID:       &key.ID,
		OrganizationID: &key.OrganizationID,
	})
	c.Request = c.Request.WithContext(context.WithValue(ctx, apiKeyContextKey, key))

	if a.limiter == nil {
		return true
	}

	decision := a.limiter.Allow(ctx, "apikey:"+strconv.FormatInt(key.ID, 10), key.RateLimit, key.RateLimitWindow)
	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if decision.Allowed {
		return true
	}

	if a.observer != nil {
		a.observer.APIKeyRateLimited()
	}
	retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	slog.WarnContext(ctx, "api key rate limited", "api_key_id", key.ID, "limit", decision.Limit)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded", "code": "rate_limited"})
	return false
}

// RequirePrincipal accepts either credential. A tk_ bearer token takes the
// API key path; anything else must be a valid session.
func RequirePrincipal(sessions SessionValidator, keys *APIKeyAuth, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret, ok := BearerAPIKey(c); ok && keys != nil {
			if !keys.authenticate(c, secret) {
				return
			}
			c.Next()
			return
		}
		if !authenticateSession(c, sessions, secureCookies) {
			return
		}
		c.Next()
	}
}
