package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

var _ = Describe("AccountService", func() {
	var (
		ctx      context.Context
		w        *world
		provider *mockProvider
		txRunner *mockTxRunner
		svc      service.AccountService
		actor    *model.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		w = newWorld()
		provider = &mockProvider{}
		txRunner = &mockTxRunner{w: w}
		svc = service.NewAccountService(w.Users(), w.Memberships(), txRunner, w.recorder(), provider)
		actor = w.addUser(10, "ada@example.com")
	})

	Describe("UpdateProfile", func() {
		It("updates the provider, then the local user, and audits each joined organization", func() {
			w.addOrg(1, "acme")
			w.addOrg(2, "globex")
			w.addOrg(3, "initech")
			w.addMember(1, actor.ID, 1, model.RoleMember)
			w.addMember(2, actor.ID, 2, model.RoleViewer)
			w.addMember(3, actor.ID, 3, model.RoleMember)
			w.memberships[3].JoinedAt = nil

			var sentFirst, sentLast, sentID string
			provider.updateUserFn = func(_ context.Context, externalID, first, last string) error {
				sentID, sentFirst, sentLast = externalID, first, last
				return nil
			}

			user, err := svc.UpdateProfile(ctx, actor, service.UpdateProfileParams{FirstName: " Ada ", LastName: "Lovelace"})

			Expect(err).NotTo(HaveOccurred())
			Expect(sentID).To(Equal("user_ada"))
			Expect(sentFirst).To(Equal("Ada"))
			Expect(sentLast).To(Equal("Lovelace"))
			Expect(user.Name).To(Equal("Ada Lovelace"))
			Expect(w.users[actor.ID].FirstName).To(Equal("Ada"))
			Expect(w.users[actor.ID].LastName).To(Equal("Lovelace"))

			entries := w.audit()
			Expect(entries).To(HaveLen(2))
			orgs := []int64{entries[0].OrganizationID, entries[1].OrganizationID}
			Expect(orgs).To(ConsistOf(int64(1), int64(2)))
			for _, e := range entries {
				Expect(e.Action).To(Equal(model.AuditUserProfileUpdated))
				Expect(e.ResourceType).To(Equal(model.ResourceUser))
			}
		})

		DescribeTable("rejects bad names without calling the provider",
			func(first, last, field string) {
				_, err := svc.UpdateProfile(ctx, actor, service.UpdateProfileParams{FirstName: first, LastName: last})

				var v *domain.ValidationError
				Expect(errors.As(err, &v)).To(BeTrue())
				Expect(v.Fields).To(HaveKey(field))
				Expect(provider.called("UpdateUser")).To(BeFalse())
			},
			Entry("blank first name", "  ", "Lovelace", "first_name"),
			Entry("missing last name", "Ada", "", "last_name"),
			Entry("first name too long", strings.Repeat("a", 51), "Lovelace", "first_name"),
		)

		It("leaves the local user untouched when the provider fails", func() {
			provider.updateUserFn = func(context.Context, string, string, string) error {
				return errors.New("workos unavailable")
			}

			_, err := svc.UpdateProfile(ctx, actor, service.UpdateProfileParams{FirstName: "Ada", LastName: "Lovelace"})

			Expect(errors.Is(err, domain.ErrUpstream)).To(BeTrue())
			Expect(w.users[actor.ID].Name).To(Equal("ada@example.com"))
			Expect(w.audit()).To(BeEmpty())
		})
	})

	Describe("DeleteAccount", func() {
		BeforeEach(func() {
			w.addOrg(1, "acme")
			w.addOrg(2, "globex")
			w.addMember(1, 20, 1, model.RoleOwner)
			w.addMember(2, actor.ID, 1, model.RoleAdmin)
			w.addMember(3, actor.ID, 2, model.RoleMember)

			w.apiKeys[1] = &model.APIKey{ID: 1, OrganizationID: 1, UserID: actor.ID, IsActive: true}
			w.apiKeys[2] = &model.APIKey{ID: 2, OrganizationID: 1, UserID: 20, IsActive: true}
			w.sessions[1] = &model.Session{ID: 1, UserID: actor.ID, ExpiresAt: time.Now().Add(time.Hour)}
			w.sessions[2] = &model.Session{ID: 2, UserID: 20, ExpiresAt: time.Now().Add(time.Hour)}
		})

		It("removes memberships, keys and sessions, then audits once per organization", func() {
			err := svc.DeleteAccount(ctx, actor, service.DeleteConfirmation)

			Expect(err).NotTo(HaveOccurred())
			Expect(provider.called("DeleteUser")).To(BeTrue())
			Expect(w.membership(actor.ID, 1)).To(BeNil())
			Expect(w.membership(actor.ID, 2)).To(BeNil())
			Expect(w.membership(20, 1)).NotTo(BeNil())
			Expect(w.apiKeys[1].IsActive).To(BeFalse())
			Expect(w.apiKeys[2].IsActive).To(BeTrue())
			Expect(w.sessions).NotTo(HaveKey(int64(1)))
			Expect(w.sessions).To(HaveKey(int64(2)))

			entries := w.audit()
			Expect(entries).To(HaveLen(2))
			for _, e := range entries {
				Expect(e.Action).To(Equal(model.AuditUserAccountDeleted))
				Expect(e.UserID).To(HaveValue(Equal(actor.ID)))
			}
			Expect([]int64{entries[0].OrganizationID, entries[1].OrganizationID}).To(ConsistOf(int64(1), int64(2)))
		})

		It("requires the typed confirmation", func() {
			err := svc.DeleteAccount(ctx, actor, "delete")

			var v *domain.ValidationError
			Expect(errors.As(err, &v)).To(BeTrue())
			Expect(v.Fields).To(HaveKey("confirmation"))
			Expect(provider.called("DeleteUser")).To(BeFalse())
			Expect(w.membership(actor.ID, 1)).NotTo(BeNil())
		})

		It("refuses while the user owns an organization", func() {
			w.addOrg(3, "initech")
			w.addMember(4, actor.ID, 3, model.RoleOwner)

			err := svc.DeleteAccount(ctx, actor, service.DeleteConfirmation)

			Expect(errors.Is(err, service.ErrSoleOwner)).To(BeTrue())
			Expect(errors.Is(err, domain.ErrInvalidOperation)).To(BeTrue())
			Expect(provider.called("DeleteUser")).To(BeFalse())
			Expect(w.membership(actor.ID, 1)).NotTo(BeNil())
			Expect(w.apiKeys[1].IsActive).To(BeTrue())
			Expect(w.audit()).To(BeEmpty())
		})

		It("keeps everything local when the provider refuses", func() {
			provider.deleteUserFn = func(context.Context, string) error {
				return errors.New("workos unavailable")
			}

			err := svc.DeleteAccount(ctx, actor, service.DeleteConfirmation)

			Expect(errors.Is(err, domain.ErrUpstream)).To(BeTrue())
			Expect(w.membership(actor.ID, 1)).NotTo(BeNil())
			Expect(w.sessions).To(HaveKey(int64(1)))
			Expect(w.audit()).To(BeEmpty())
		})
	})
})
