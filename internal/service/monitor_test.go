package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var _ = Describe("MonitorService", func() {
	const orgID = int64(1)

	var (
		ctx                   context.Context
		w                     *world
		svc                   service.MonitorService
		admin, member, viewer *model.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		w = newWorld()
		svc = service.NewMonitorService(w.Monitors(), w.guard(), w.recorder())

		w.addOrg(orgID, "acme")
		admin = w.addUser(10, "admin@example.com")
		member = w.addUser(11, "member@example.com")
		viewer = w.addUser(12, "viewer@example.com")
		w.addMember(100, admin.ID, orgID, model.RoleAdmin)
		w.addMember(101, member.ID, orgID, model.RoleMember)
		w.addMember(102, viewer.ID, orgID, model.RoleViewer)
	})

	input := func() service.MonitorInput {
		return service.MonitorInput{Name: strPtr("homepage"), URL: strPtr("https://acme.example.com")}
	}

	Describe("Create", func() {
		It("applies defaults", func() {
			m, err := svc.Create(ctx, authz.UserPrincipal(member.ID), orgID, input())

			Expect(err).NotTo(HaveOccurred())
			Expect(m.Method).To(Equal("GET"))
			Expect(m.ExpectedStatus).To(Equal(200))
			Expect(m.TimeoutSeconds).To(Equal(30))
			Expect(m.IntervalSeconds).To(Equal(300))
			Expect(m.IsActive).To(BeTrue())

			entries := w.audit()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Action).To(Equal(model.AuditMonitorCreated))
			Expect(entries[0].UserID).To(HaveValue(Equal(member.ID)))
		})

		It("validates every field", func() {
			in := service.MonitorInput{
				Name:            strPtr(""),
				URL:             strPtr("ftp://acme.example.com"),
				Method:          strPtr("TRACE"),
				ExpectedStatus:  intPtr(99),
				TimeoutSeconds:  intPtr(61),
				IntervalSeconds: intPtr(29),
			}

			_, err := svc.Create(ctx, authz.UserPrincipal(member.ID), orgID, in)

			var verr *domain.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Fields).To(HaveLen(6))
		})

		It("is forbidden to a VIEWER", func() {
			_, err := svc.Create(ctx, authz.UserPrincipal(viewer.ID), orgID, input())
			Expect(errors.Is(err, domain.ErrForbidden)).To(BeTrue())
			Expect(w.monitors).To(BeEmpty())
		})

		It("attributes API key writes to the system", func() {
			key := &model.APIKey{ID: 7, OrganizationID: orgID, Permissions: []model.Permission{model.PermMonitorsWrite}}

			_, err := svc.Create(ctx, authz.KeyPrincipal(key), orgID, input())

			Expect(err).NotTo(HaveOccurred())
			entries := w.audit()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].UserID).To(BeNil())
			Expect(string(entries[0].Metadata)).To(ContainSubstring(`"apiKeyId":"7"`))
		})

		It("limits API keys to their grant list and organization", func() {
			readOnly := &model.APIKey{ID: 7, OrganizationID: orgID, Permissions: []model.Permission{model.PermMonitorsRead}}
			foreign := &model.APIKey{ID: 8, OrganizationID: 2, Permissions: []model.Permission{model.PermMonitorsWrite}}

			_, err := svc.Create(ctx, authz.KeyPrincipal(readOnly), orgID, input())
			Expect(errors.Is(err, domain.ErrForbidden)).To(BeTrue())

			_, err = svc.Create(ctx, authz.KeyPrincipal(foreign), orgID, input())
			Expect(errors.Is(err, domain.ErrForbidden)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("keeps fields that are not sent", func() {
			m, err := svc.Create(ctx, authz.UserPrincipal(member.ID), orgID, input())
			Expect(err).NotTo(HaveOccurred())

			inactive := false
			updated, err := svc.Update(ctx, authz.UserPrincipal(member.ID), orgID, m.ID, service.MonitorInput{IsActive: &inactive})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("homepage"))
			Expect(updated.IsActive).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("is allowed to a MEMBER and not to an ADMIN", func() {
			m, err := svc.Create(ctx, authz.UserPrincipal(member.ID), orgID, input())
			Expect(err).NotTo(HaveOccurred())

			err = svc.Delete(ctx, authz.UserPrincipal(admin.ID), orgID, m.ID)
			Expect(errors.Is(err, domain.ErrForbidden)).To(BeTrue())

			Expect(svc.Delete(ctx, authz.UserPrincipal(member.ID), orgID, m.ID)).To(Succeed())
			Expect(w.monitors).To(BeEmpty())
		})

		It("reports a monitor of another organization as not found", func() {
			w.monitors[50] = &model.Monitor{ID: 50, OrganizationID: 2, Name: "theirs"}

			err := svc.Delete(ctx, authz.UserPrincipal(member.ID), orgID, 50)
			Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
			Expect(w.monitors).To(HaveKey(int64(50)))
		})
	})
})
