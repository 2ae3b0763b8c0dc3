package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/http/middleware"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

const (
	stateCookieName    = "tenantkit_oauth_state"
	sessionMaxAge      = int(service.SessionTTL / time.Second)
	sessionMaxAgeHours = int(service.SessionTTL / time.Hour)
)

type AuthHandler struct {
	authService       service.AuthService
	invitationService service.InvitationService
	dashboardURL      string
	isProduction      bool
}

func NewAuthHandler(
	authService service.AuthService,
	invitationService service.InvitationService,
	dashboardURL string,
	isProduction bool,
) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		invitationService: invitationService,
		dashboardURL:      dashboardURL,
		isProduction:      isProduction,
	}
}

// Login starts the browser redirect flow.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to generate state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login"})
		return
	}

	authURL, err := h.authService.GetAuthorizationURL(state)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to get authorization URL", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login"})
		return
	}

	c.SetCookie(stateCookieName, state, 600, "/", "", h.isProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	state := c.Query("state")

	if errorParam := c.Query("error"); errorParam != "" {
		slog.WarnContext(ctx, "OAuth error", "error", errorParam, "description", c.Query("error_description"))
		c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"?auth_error="+errorParam)
		return
	}

	storedState, err := c.Cookie(stateCookieName)
	if err != nil || state != storedState {
		slog.WarnContext(ctx, "state mismatch")
		c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"?auth_error=invalid_state")
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", h.isProduction, true)

	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"?auth_error=no_code")
		return
	}

	result, err := h.authService.HandleCallback(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to handle callback", "error", err)
		if errors.Is(err, service.ErrInvalidCode) {
			c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"?auth_error=invalid_code")
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"?auth_error=callback_failed")
		return
	}

	h.setSessionCookie(c, result.Session.ID)
	slog.InfoContext(ctx, "user logged in", "user_id", result.User.ID)

	c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"/dashboard")
}

type GetAuthURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// GetAuthURL is the dashboard flavour of Login. An invite token pre-fills
// the invited email on the provider's sign-in page.
func (h *AuthHandler) GetAuthURL(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := generateState()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	var opts []service.AuthURLOption
	if loginHint := c.Query("login_hint"); loginHint != "" {
		opts = append(opts, service.WithLoginHint(loginHint))
	} else if token := c.Query("invite_token"); token != "" {
		if inv, err := h.invitationService.ValidateToken(ctx, token); err == nil {
			opts = append(opts, service.WithLoginHint(inv.Email))
		}
	}

	authURL, err := h.authService.GetAuthorizationURL(state, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get authorization URL", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get authorization URL"})
		return
	}

	c.JSON(http.StatusOK, GetAuthURLResponse{
		AuthorizationURL: authURL,
		State:            state,
	})
}

type ExchangeRequest struct {
	Code        string  `json:"code" binding:"required"`
	InviteToken *string `json:"invite_token,omitempty"`
}

type ExchangeResponse struct {
	User           *dto.UserResponse `json:"user"`
	SessionID      string            `json:"session_id"`
	ExpiresIn      int               `json:"expires_in"`
	OrganizationID *string           `json:"organization_id,omitempty"`
}

func (h *AuthHandler) Exchange(c *gin.Context) {
	ctx := c.Request.Context()

	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "code is required")
		return
	}

	result, err := h.authService.HandleCallback(ctx, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid authorization code", "code": "invalid_code"})
			return
		}
		slog.ErrorContext(ctx, "failed to exchange code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to exchange code"})
		return
	}

	resp := ExchangeResponse{
		User:      dto.ToUserResponse(result.User),
		SessionID: strconv.FormatInt(result.Session.ID, 10),
		ExpiresIn: sessionMaxAgeHours,
	}

	if req.InviteToken != nil && *req.InviteToken != "" {
		inv, err := h.invitationService.Accept(ctx, *req.InviteToken, result.User)
		if err != nil {
			h.inviteFailed(c, err, result.User, result.Session)
			return
		}
		orgID := strconv.FormatInt(inv.OrganizationID, 10)
		resp.OrganizationID = &orgID
		slog.InfoContext(ctx, "invitation accepted during auth exchange",
			"user_id", result.User.ID,
			"organization_id", inv.OrganizationID)
	}

	slog.InfoContext(ctx, "user authenticated via exchange", "user_id", result.User.ID)
	c.JSON(http.StatusOK, resp)
}

// inviteFailed keeps the session on an email mismatch so the dashboard can
// run the provider logout. Every other failure drops it.
func (h *AuthHandler) inviteFailed(c *gin.Context, err error, user *model.User, session *model.Session) {
	ctx := c.Request.Context()
	slog.WarnContext(ctx, "failed to accept invitation", "error", err, "user_id", user.ID)

	if errors.Is(err, service.ErrEmailMismatch) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":      "The email you signed in with doesn't match the invitation",
			"code":       "email_mismatch",
			"session_id": strconv.FormatInt(session.ID, 10),
		})
		return
	}

	if delErr := h.authService.Logout(ctx, session.ID); delErr != nil {
		slog.WarnContext(ctx, "failed to delete session after invite failure",
			"error", delErr,
			"session_id", session.ID)
	}
	respondError(c, err)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated", "code": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

type LogoutRequest struct {
	ReturnTo string `json:"return_to,omitempty"`
}

type LogoutResponse struct {
	Message   string `json:"message"`
	LogoutURL string `json:"logout_url,omitempty"`
}

// Logout deletes the current session and hands back the provider logout URL
// when the session came from the provider.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(ctx)

	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	session, err := h.authService.GetSessionByID(ctx, sessionID)
	if err != nil {
		slog.DebugContext(ctx, "session not found for logout URL", "error", err, "session_id", sessionID)
	}

	if err := h.authService.Logout(ctx, sessionID); err != nil {
		slog.WarnContext(ctx, "failed to delete session", "error", err, "session_id", sessionID)
	}
	middleware.ClearSessionCookie(c, h.isProduction)

	resp := LogoutResponse{Message: "logged out"}
	if session != nil && session.WorkOSSessionID != nil && *session.WorkOSSessionID != "" {
		returnTo := req.ReturnTo
		if returnTo == "" {
			returnTo = h.dashboardURL
		}
		resp.LogoutURL = h.authService.GetLogoutURL(*session.WorkOSSessionID, returnTo)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID int64) {
	c.SetCookie(
		middleware.SessionCookieName,
		strconv.FormatInt(sessionID, 10),
		sessionMaxAge,
		"/",
		"",
		h.isProduction,
		true,
	)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
