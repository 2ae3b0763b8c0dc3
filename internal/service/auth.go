package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

const SessionTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCode    = errors.New("invalid authorization code")
	ErrUserNotFound   = fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	ErrSessionExpired = fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
)

type CallbackResult struct {
	User    *model.User
	Session *model.Session
}

type authURLOptions struct {
	loginHint string
}

type AuthURLOption func(*authURLOptions)

// WithLoginHint pre-fills the email on the provider's sign-in page.
func WithLoginHint(email string) AuthURLOption {
	return func(o *authURLOptions) { o.loginHint = email }
}

type AuthService interface {
	GetAuthorizationURL(state string, opts ...AuthURLOption) (string, error)
	HandleCallback(ctx context.Context, code string) (*CallbackResult, error)
	ValidateSession(ctx context.Context, sessionID int64) (*model.User, error)
	GetSessionByID(ctx context.Context, sessionID int64) (*model.Session, error)
	Logout(ctx context.Context, sessionID int64) error
	GetLogoutURL(workosSessionID, returnTo string) string
}

type authService struct {
	userStore     store.UserStore
	sessionStore  store.SessionStore
	authenticator identity.Authenticator
}

func NewAuthService(
	userStore store.UserStore,
	sessionStore store.SessionStore,
	authenticator identity.Authenticator,
) AuthService {
	return &authService{
		userStore:     userStore,
		sessionStore:  sessionStore,
		authenticator: authenticator,
	}
}

func (s *authService) GetAuthorizationURL(state string, opts ...AuthURLOption) (string, error) {
	var o authURLOptions
	for _, opt := range opts {
		opt(&o)
	}
	return s.authenticator.AuthorizationURL(state, o.loginHint)
}

func (s *authService) HandleCallback(ctx context.Context, code string) (*CallbackResult, error) {
	auth, err := s.authenticator.AuthenticateWithCode(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to authenticate with code", "error", err)
		return nil, ErrInvalidCode
	}

	var avatarURL *string
	if auth.User.ProfilePictureURL != "" {
		avatarURL = &auth.User.ProfilePictureURL
	}

	user := &model.User{
		ID:        id.New(),
		Name:      auth.User.DisplayName(),
		FirstName: auth.User.FirstName,
		LastName:  auth.User.LastName,
		Email:     auth.User.Email,
		AvatarURL: avatarURL,
		WorkOSID:  &auth.User.ExternalID,
	}

	if err := s.userStore.UpsertByWorkOSID(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"email", user.Email,
			"workos_id", auth.User.ExternalID,
		)
		return nil, storeErr("upserting user", err)
	}

	session := &model.Session{
		ID:        id.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if auth.SessionID != "" {
		session.WorkOSSessionID = &auth.SessionID
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create session",
			"error", err,
			"user_id", user.ID,
		)
		return nil, fmt.Errorf("creating session: %w", err)
	}

	slog.InfoContext(ctx, "user authenticated",
		"user_id", user.ID,
		"session_id", session.ID,
	)

	return &CallbackResult{User: user, Session: session}, nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, error) {
	session, err := s.sessionStore.GetValid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return user, nil
}

func (s *authService) GetSessionByID(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, storeErr("getting session", err)
	}
	return session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID int64) error {
	if err := s.sessionStore.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// GetLogoutURL returns "" when the provider URL cannot be built; local
// logout has already happened by then.
func (s *authService) GetLogoutURL(workosSessionID, returnTo string) string {
	u, err := s.authenticator.LogoutURL(workosSessionID, returnTo)
	if err != nil {
		slog.Warn("failed to build logout url", "error", err)
		return ""
	}
	return u
}
