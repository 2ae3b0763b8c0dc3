package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/workos/workos-go/v6/pkg/organizations"
	"github.com/workos/workos-go/v6/pkg/usermanagement"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/core/config"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
)

const (
	defaultTimeout = 10 * time.Second
	listPageSize   = 100
)

// WorkOS implements Provider and Authenticator on top of the WorkOS SDK.
type WorkOS struct {
	cfg config.WorkOSConfig
}

func NewWorkOS(cfg config.WorkOSConfig) *WorkOS {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	usermanagement.SetAPIKey(cfg.APIKey)
	organizations.SetAPIKey(cfg.APIKey)
	return &WorkOS{cfg: cfg}
}

// call runs fn under the provider timeout inside a client span.
func (w *WorkOS) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	sc := logger.StartSpan(ctx, "workos."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("peer.service", "workos")))
	defer sc.End()

	ctx, cancel := context.WithTimeout(sc.Context(), w.cfg.Timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "workos call failed", "op", op, "error", err)
		return fmt.Errorf("%w: workos %s: %v", domain.ErrUpstream, op, err)
	}
	return nil
}

func (w *WorkOS) GetUser(ctx context.Context, externalID string) (*User, error) {
	var u usermanagement.User
	err := w.call(ctx, "get_user", func(ctx context.Context) error {
		var err error
		u, err = usermanagement.GetUser(ctx, usermanagement.GetUserOpts{User: externalID})
		return err
	})
	if err != nil {
		return nil, err
	}
	user := fromWorkOSUser(u)
	return &user, nil
}

func (w *WorkOS) UpdateUser(ctx context.Context, externalID, firstName, lastName string) error {
	return w.call(ctx, "update_user", func(ctx context.Context) error {
		_, err := usermanagement.UpdateUser(ctx, usermanagement.UpdateUserOpts{
			User:      externalID,
			FirstName: firstName,
			LastName:  lastName,
		})
		return err
	})
}

// DeleteUser removes the provider user. The provider then sends user.deleted,
// which deletes the local row.
func (w *WorkOS) DeleteUser(ctx context.Context, externalID string) error {
	return w.call(ctx, "delete_user", func(ctx context.Context) error {
		return usermanagement.DeleteUser(ctx, usermanagement.DeleteUserOpts{User: externalID})
	})
}

func (w *WorkOS) CreateOrganization(ctx context.Context, name string) (string, error) {
	var org organizations.Organization
	err := w.call(ctx, "create_organization", func(ctx context.Context) error {
		var err error
		org, err = organizations.CreateOrganization(ctx, organizations.CreateOrganizationOpts{Name: name})
		return err
	})
	if err != nil {
		return "", err
	}
	return org.ID, nil
}

func (w *WorkOS) UpdateOrganization(ctx context.Context, externalID, name string) error {
	return w.call(ctx, "update_organization", func(ctx context.Context) error {
		_, err := organizations.UpdateOrganization(ctx, organizations.UpdateOrganizationOpts{
			Organization: externalID,
			Name:         name,
		})
		return err
	})
}

func (w *WorkOS) DeleteOrganization(ctx context.Context, externalID string) error {
	return w.call(ctx, "delete_organization", func(ctx context.Context) error {
		return organizations.DeleteOrganization(ctx, organizations.DeleteOrganizationOpts{
			Organization: externalID,
		})
	})
}

// FindOrganizationByName pages through every organization. Names are not
// unique on the provider side; the first exact match wins.
func (w *WorkOS) FindOrganizationByName(ctx context.Context, name string) (string, bool, error) {
	var found string
	err := w.call(ctx, "find_organization", func(ctx context.Context) error {
		after := ""
		for {
			resp, err := organizations.ListOrganizations(ctx, organizations.ListOrganizationsOpts{
				Limit: listPageSize,
				After: after,
			})
			if err != nil {
				return err
			}
			for _, org := range resp.Data {
				if strings.EqualFold(org.Name, name) {
					found = org.ID
					return nil
				}
			}
			if resp.ListMetadata.After == "" {
				return nil
			}
			after = resp.ListMetadata.After
		}
	})
	if err != nil {
		return "", false, err
	}
	return found, found != "", nil
}

func (w *WorkOS) CreateMembership(ctx context.Context, userExternalID, orgExternalID string, role model.Role) (string, error) {
	var m usermanagement.OrganizationMembership
	err := w.call(ctx, "create_membership", func(ctx context.Context) error {
		var err error
		m, err = usermanagement.CreateOrganizationMembership(ctx, usermanagement.CreateOrganizationMembershipOpts{
			UserID:         userExternalID,
			OrganizationID: orgExternalID,
			RoleSlug:       RoleToExternal(role),
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (w *WorkOS) UpdateMembership(ctx context.Context, membershipExternalID string, role model.Role) error {
	return w.call(ctx, "update_membership", func(ctx context.Context) error {
		_, err := usermanagement.UpdateOrganizationMembership(ctx, membershipExternalID,
			usermanagement.UpdateOrganizationMembershipOpts{RoleSlug: RoleToExternal(role)})
		return err
	})
}

func (w *WorkOS) DeleteMembership(ctx context.Context, membershipExternalID string) error {
	return w.call(ctx, "delete_membership", func(ctx context.Context) error {
		return usermanagement.DeleteOrganizationMembership(ctx, usermanagement.DeleteOrganizationMembershipOpts{
			OrganizationMembership: membershipExternalID,
		})
	})
}

func (w *WorkOS) FindMembership(ctx context.Context, userExternalID, orgExternalID string) (string, bool, error) {
	var found string
	err := w.call(ctx, "find_membership", func(ctx context.Context) error {
		resp, err := usermanagement.ListOrganizationMemberships(ctx, usermanagement.ListOrganizationMembershipsOpts{
			OrganizationID: orgExternalID,
			UserID:         userExternalID,
			Limit:          1,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) > 0 {
			found = resp.Data[0].ID
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return found, found != "", nil
}

func (w *WorkOS) AuthorizationURL(state, loginHint string) (string, error) {
	u, err := usermanagement.GetAuthorizationURL(usermanagement.GetAuthorizationURLOpts{
		ClientID:    w.cfg.ClientID,
		RedirectURI: w.cfg.RedirectURI,
		State:       state,
		Provider:    "authkit",
		LoginHint:   loginHint,
	})
	if err != nil {
		return "", fmt.Errorf("generating authorization URL: %w", err)
	}
	return u.String(), nil
}

func (w *WorkOS) AuthenticateWithCode(ctx context.Context, code string) (*AuthResult, error) {
	var resp usermanagement.AuthenticateResponse
	err := w.call(ctx, "authenticate_with_code", func(ctx context.Context) error {
		var err error
		resp, err = usermanagement.AuthenticateWithCode(ctx, usermanagement.AuthenticateWithCodeOpts{
			ClientID: w.cfg.ClientID,
			Code:     code,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &AuthResult{User: fromWorkOSUser(resp.User)}
	if sid, err := SessionIDFromAccessToken(resp.AccessToken); err == nil {
		result.SessionID = sid
	} else {
		slog.WarnContext(ctx, "no provider session id in access token", "error", err)
	}
	return result, nil
}

func (w *WorkOS) LogoutURL(sessionID, returnTo string) (string, error) {
	u, err := usermanagement.GetLogoutURL(usermanagement.GetLogoutURLOpts{
		SessionID: sessionID,
		ReturnTo:  returnTo,
	})
	if err != nil {
		return "", fmt.Errorf("generating logout URL: %w", err)
	}
	return u.String(), nil
}

func fromWorkOSUser(u usermanagement.User) User {
	return User{
		ExternalID:        u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}
