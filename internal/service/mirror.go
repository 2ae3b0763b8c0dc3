package service

import (
	"context"
	"log/slog"

	"tenantkit.dev/api/internal/identity"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

// providerMirror copies local membership changes to the identity provider.
// Local state is the source of truth, so every failure here is logged and
// dropped. Callers invoke it after their own writes have committed.
type providerMirror struct {
	orgs     store.OrganizationStore
	provider identity.Provider
}

func (m providerMirror) externalIDs(ctx context.Context, org *model.Organization, user *model.User) (string, string, bool) {
	if m.provider == nil || user.WorkOSID == nil || org == nil || org.ExternalID == nil {
		slog.DebugContext(ctx, "skipping provider membership sync, no external ids",
			"user_id", user.ID)
		return "", "", false
	}
	return *user.WorkOSID, *org.ExternalID, true
}

func (m providerMirror) loadOrg(ctx context.Context, orgID int64) *model.Organization {
	org, err := m.orgs.GetByID(ctx, orgID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load organization for provider sync", "error", err, "organization_id", orgID)
		return nil
	}
	return org
}

func (m providerMirror) createMembership(ctx context.Context, orgID int64, user *model.User, role model.Role) {
	userExt, orgExt, ok := m.externalIDs(ctx, m.loadOrg(ctx, orgID), user)
	if !ok {
		return
	}
	if _, err := m.provider.CreateMembership(ctx, userExt, orgExt, role); err != nil {
		slog.WarnContext(ctx, "failed to create provider membership", "error", err, "user_id", user.ID)
	}
}

func (m providerMirror) updateMembership(ctx context.Context, orgID int64, user *model.User, role model.Role) {
	userExt, orgExt, ok := m.externalIDs(ctx, m.loadOrg(ctx, orgID), user)
	if !ok {
		return
	}
	membershipExt, found, err := m.provider.FindMembership(ctx, userExt, orgExt)
	if err != nil || !found {
		slog.WarnContext(ctx, "provider membership not found for role update", "error", err, "user_id", user.ID)
		return
	}
	if err := m.provider.UpdateMembership(ctx, membershipExt, role); err != nil {
		slog.WarnContext(ctx, "failed to update provider membership", "error", err, "user_id", user.ID)
	}
}

func (m providerMirror) deleteMembership(ctx context.Context, org *model.Organization, user *model.User) {
	userExt, orgExt, ok := m.externalIDs(ctx, org, user)
	if !ok {
		return
	}
	membershipExt, found, err := m.provider.FindMembership(ctx, userExt, orgExt)
	if err != nil || !found {
		slog.WarnContext(ctx, "provider membership not found for removal", "error", err, "user_id", user.ID)
		return
	}
	if err := m.provider.DeleteMembership(ctx, membershipExt); err != nil {
		slog.WarnContext(ctx, "failed to delete provider membership", "error", err, "user_id", user.ID)
	}
}
