// Package identity talks to the external identity provider: outbound calls
// that mirror organization and membership changes, sign-in, and the shape
// of the events the provider sends back through webhooks.
package identity

import (
	"context"
	"strings"

	"tenantkit.dev/api/internal/model"
)

// User is a provider-side user profile.
type User struct {
	ExternalID        string
	Email             string
	FirstName         string
	LastName          string
	ProfilePictureURL string
}

// DisplayName falls back to the email when the provider has no name.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Provider mirrors local organization and membership changes to the
// identity provider. Every method is bounded by the configured timeout and
// reports provider failures as domain.ErrUpstream.
type Provider interface {
	GetUser(ctx context.Context, externalID string) (*User, error)
	UpdateUser(ctx context.Context, externalID, firstName, lastName string) error
	DeleteUser(ctx context.Context, externalID string) error
	CreateOrganization(ctx context.Context, name string) (string, error)
	UpdateOrganization(ctx context.Context, externalID, name string) error
	DeleteOrganization(ctx context.Context, externalID string) error
	FindOrganizationByName(ctx context.Context, name string) (string, bool, error)
	CreateMembership(ctx context.Context, userExternalID, orgExternalID string, role model.Role) (string, error)
	UpdateMembership(ctx context.Context, membershipExternalID string, role model.Role) error
	DeleteMembership(ctx context.Context, membershipExternalID string) error
	FindMembership(ctx context.Context, userExternalID, orgExternalID string) (string, bool, error)
}

// AuthResult is what a successful code exchange yields.
type AuthResult struct {
	User      User
	SessionID string // provider session, used for logout
}

type Authenticator interface {
	AuthorizationURL(state, loginHint string) (string, error)
	AuthenticateWithCode(ctx context.Context, code string) (*AuthResult, error)
	LogoutURL(sessionID, returnTo string) (string, error)
}
