package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tenantkit.dev/api/core/config"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

var _ = Describe("APIKeyService", func() {
	const orgID = int64(1)

	var (
		ctx           context.Context
		w             *world
		svc           service.APIKeyService
		admin, member *model.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		w = newWorld()
		svc = service.NewAPIKeyService(w.APIKeys(), w.guard(), w.recorder(), config.RateLimitConfig{})

		w.addOrg(orgID, "acme")
		admin = w.addUser(10, "admin@example.com")
		member = w.addUser(11, "member@example.com")
		w.addMember(100, admin.ID, orgID, model.RoleAdmin)
		w.addMember(101, member.ID, orgID, model.RoleMember)
	})

	create := func(perms ...model.Permission) *service.CreatedAPIKey {
		created, err := svc.Create(ctx, admin.ID, orgID, service.CreateAPIKeyParams{Name: "ci", Permissions: perms})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	Describe("Create", func() {
		It("returns the secret once and stores only its hash", func() {
			created := create(model.PermMonitorsRead, model.PermMonitorsRead)

			Expect(created.Secret).To(HavePrefix(service.APIKeyPrefix))
			Expect(created.Key.KeyPrefix).To(Equal(created.Secret[:8]))
			Expect(created.Key.KeyHash).To(Equal(service.HashAPIKey(created.Secret)))
			Expect(created.Key.KeyHash).NotTo(ContainSubstring(created.Secret))
			Expect(created.Key.Permissions).To(Equal([]model.Permission{model.PermMonitorsRead}))
			Expect(created.Key.RateLimit).To(Equal(1000))
			Expect(created.Key.RateLimitWindow).To(Equal(time.Hour))

			entries := w.audit()
			Expect(entries).To(HaveLen(1))
			Expect(string(entries[0].Metadata)).NotTo(ContainSubstring(created.Secret))
		})

		It("cannot grant more than the creator holds", func() {
			_, err := svc.Create(ctx, admin.ID, orgID, service.CreateAPIKeyParams{
				Name:        "too much",
				Permissions: []model.Permission{model.PermOrganizationDelete},
			})

			Expect(errors.Is(err, domain.ErrForbidden)).To(BeTrue())
			Expect(w.apiKeys).To(BeEmpty())
		})

		It("requires api_keys:write", func() {
			_, err := svc.Create(ctx, member.ID, orgID, service.CreateAPIKeyParams{
				Name:        "ci",
				Permissions: []model.Permission{model.PermMonitorsRead},
			})
			Expect(errors.Is(err, domain.ErrForbidden)).To(BeTrue())
		})

		It("validates limits and permissions", func() {
			zero := 0
			window := time.Millisecond
			past := time.Now().Add(-time.Hour)

			_, err := svc.Create(ctx, admin.ID, orgID, service.CreateAPIKeyParams{
				Name:            "",
				Permissions:     []model.Permission{"monitors:launch"},
				RateLimit:       &zero,
				RateLimitWindow: &window,
				ExpiresAt:       &past,
			})

			var verr *domain.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Fields).To(HaveKey("name"))
			Expect(verr.Fields).To(HaveKey("permissions"))
			Expect(verr.Fields).To(HaveKey("rate_limit"))
			Expect(verr.Fields).To(HaveKey("rate_limit_window"))
			Expect(verr.Fields).To(HaveKey("expires_at"))
		})
	})

	Describe("List", func() {
		It("never returns hashes", func() {
			create(model.PermMonitorsRead)

			keys, err := svc.List(ctx, member.ID, orgID)

			Expect(err).NotTo(HaveOccurred())
			Expect(keys).To(HaveLen(1))
			Expect(keys[0].KeyHash).To(BeEmpty())
		})
	})

	Describe("Authenticate", func() {
		It("resolves an active key", func() {
			created := create(model.PermMonitorsRead)

			key, err := svc.Authenticate(ctx, created.Secret)

			Expect(err).NotTo(HaveOccurred())
			Expect(key.ID).To(Equal(created.Key.ID))
			Expect(w.apiKeys[key.ID].LastUsedAt).NotTo(BeNil())
		})

		It("returns the identical error for unknown, revoked and expired keys", func() {
			revoked := create(model.PermMonitorsRead)
			Expect(svc.Revoke(ctx, admin.ID, orgID, revoked.Key.ID)).To(Succeed())

			expired := create(model.PermMonitorsRead)
			past := time.Now().Add(-time.Minute)
			w.apiKeys[expired.Key.ID].ExpiresAt = &past

			unknown := service.APIKeyPrefix + strings.Repeat("x", 43)

			var errs []error
			for _, secret := range []string{unknown, revoked.Secret, expired.Secret, "not-a-key"} {
				_, err := svc.Authenticate(ctx, secret)
				errs = append(errs, err)
			}
			for _, err := range errs {
				Expect(err).To(MatchError(service.ErrInvalidAPIKey))
				Expect(err.Error()).To(Equal(errs[0].Error()))
				Expect(errors.Is(err, domain.ErrUnauthorized)).To(BeTrue())
			}
		})
	})

	Describe("Revoke", func() {
		It("reports a key of another organization as not found", func() {
			created := create(model.PermMonitorsRead)
			w.apiKeys[created.Key.ID].OrganizationID = 2

			err := svc.Revoke(ctx, admin.ID, orgID, created.Key.ID)
			Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
		})
	})
})
