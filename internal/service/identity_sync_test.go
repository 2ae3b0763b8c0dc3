package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

type eventCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *eventCounter) ObserveIdentityEvent(eventType, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[eventType+"/"+result]++
}

func eventBody(kind string, data any) []byte {
	raw, err := json.Marshal(map[string]any{"id": "evt_" + kind, "event": kind, "data": data})
	Expect(err).NotTo(HaveOccurred())
	return raw
}

var _ = Describe("IdentitySyncService", func() {
	var (
		ctx      context.Context
		w        *world
		counter  *eventCounter
		svc      service.IdentitySyncService
		delivery int
	)

	process := func(kind string, data any) (service.ProcessResult, error) {
		delivery++
		return svc.Process(ctx, "msg_"+string(rune('a'+delivery)), eventBody(kind, data))
	}

	userData := map[string]any{
		"id":         "user_01",
		"email":      "Ada@Example.com",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	}

	BeforeEach(func() {
		ctx = context.Background()
		w = newWorld()
		counter = &eventCounter{}
		svc = service.NewIdentitySyncService(w.Users(), w.Organizations(), w.Memberships(), w.IdentityEvents(), &mockTxRunner{w: w}, counter)
		delivery = 0
	})

	Describe("users", func() {
		It("upserts by external id", func() {
			_, err := process("user.created", userData)
			Expect(err).NotTo(HaveOccurred())

			Expect(w.users).To(HaveLen(1))
			for _, u := range w.users {
				Expect(u.Email).To(Equal("ada@example.com"))
				Expect(u.Name).To(Equal("Ada Lovelace"))
				Expect(u.FirstName).To(Equal("Ada"))
				Expect(u.LastName).To(Equal("Lovelace"))
			}

			renamed := map[string]any{"id": "user_01", "email": "ada@example.com", "first_name": "Augusta"}
			_, err = process("user.updated", renamed)
			Expect(err).NotTo(HaveOccurred())

			Expect(w.users).To(HaveLen(1))
			for _, u := range w.users {
				Expect(u.Name).To(Equal("Augusta"))
				Expect(u.LastName).To(BeEmpty())
			}
		})

		It("deletes the user and cascades memberships", func() {
			_, err := process("user.created", userData)
			Expect(err).NotTo(HaveOccurred())
			var userID int64
			for id := range w.users {
				userID = id
			}
			w.addOrg(1, "acme")
			w.addMember(100, userID, 1, model.RoleOwner)

			_, err = process("user.deleted", map[string]any{"id": "user_01"})

			Expect(err).NotTo(HaveOccurred())
			Expect(w.users).To(BeEmpty())
			Expect(w.memberships).To(BeEmpty())
			Expect(w.orgs).To(HaveKey(int64(1)))
		})

		It("treats deleting an unknown user as a no-op", func() {
			result, err := process("user.deleted", map[string]any{"id": "user_404"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ResultProcessed))
		})

		It("acknowledges a user whose email is bound to another provider id", func() {
			existing := w.addUser(5, "ada@example.com")

			result, err := process("user.created", userData)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ResultProcessed))
			Expect(w.users).To(HaveLen(1))
			Expect(w.users[existing.ID].WorkOSID).To(HaveValue(Equal("user_ada")))
		})

		It("rejects a user event without an email", func() {
			result, err := process("user.created", map[string]any{"id": "user_01"})

			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
			Expect(result).To(Equal(service.ResultFailed))
			Expect(counter.counts["user.created/failed"]).To(Equal(1))
		})
	})

	Describe("organizations", func() {
		It("creates a new organization keyed by slug", func() {
			_, err := process("organization.created", map[string]any{"id": "org_01", "name": "Acme Corp"})
			Expect(err).NotTo(HaveOccurred())

			Expect(w.orgs).To(HaveLen(1))
			for _, o := range w.orgs {
				Expect(o.Slug).To(Equal("acme-corp"))
				Expect(o.ExternalID).To(HaveValue(Equal("org_01")))
			}
		})

		It("updates an organization found by external id", func() {
			org := w.addOrg(1, "acme")

			_, err := process("organization.updated", map[string]any{"id": *org.ExternalID, "name": "Acme Renamed"})

			Expect(err).NotTo(HaveOccurred())
			Expect(w.orgs).To(HaveLen(1))
			Expect(w.orgs[1].Name).To(Equal("Acme Renamed"))
			Expect(w.orgs[1].Slug).To(Equal("acme"))
		})

		It("deletes by external id and ignores unknown ones", func() {
			org := w.addOrg(1, "acme")

			_, err := process("organization.deleted", map[string]any{"id": *org.ExternalID})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.orgs).To(BeEmpty())

			_, err = process("organization.deleted", map[string]any{"id": "org_gone"})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("memberships", func() {
		var (
			user *model.User
			org  *model.Organization
		)

		membership := func(role any, status string) map[string]any {
			return map[string]any{
				"id":              "om_01",
				"user_id":         *user.WorkOSID,
				"organization_id": *org.ExternalID,
				"role":            role,
				"status":          status,
			}
		}

		BeforeEach(func() {
			user = w.addUser(10, "ada@example.com")
			org = w.addOrg(1, "acme")
		})

		It("creates a joined membership with the mapped role", func() {
			_, err := process("organization_membership.created", membership(map[string]any{"slug": "admin"}, "active"))

			Expect(err).NotTo(HaveOccurred())
			m := w.membership(user.ID, org.ID)
			Expect(m.Role).To(Equal(model.RoleAdmin))
			Expect(m.IsPending()).To(BeFalse())
		})

		It("accepts the camel-case event name and a bare role string", func() {
			_, err := process("organizationMembership.created", membership("org:member", "pending"))

			Expect(err).NotTo(HaveOccurred())
			m := w.membership(user.ID, org.ID)
			Expect(m.Role).To(Equal(model.RoleMember))
			Expect(m.IsPending()).To(BeTrue())
		})

		It("never mints an OWNER from an external owner role", func() {
			_, err := process("organization_membership.created", membership("owner", "active"))

			Expect(err).NotTo(HaveOccurred())
			Expect(w.membership(user.ID, org.ID).Role).To(Equal(model.RoleAdmin))
			Expect(w.owners(org.ID)).To(Equal(0))
		})

		It("never demotes the OWNER", func() {
			w.addMember(100, user.ID, org.ID, model.RoleOwner)

			_, err := process("organization_membership.updated", membership("member", "active"))

			Expect(err).NotTo(HaveOccurred())
			Expect(w.membership(user.ID, org.ID).Role).To(Equal(model.RoleOwner))
		})

		It("keeps a local VIEWER when the provider echoes member", func() {
			w.addMember(100, user.ID, org.ID, model.RoleViewer)

			_, err := process("organization_membership.updated", membership("member", "active"))

			Expect(err).NotTo(HaveOccurred())
			Expect(w.membership(user.ID, org.ID).Role).To(Equal(model.RoleViewer))
		})

		It("maps unknown roles to MEMBER", func() {
			_, err := process("organization_membership.created", membership("billing-manager", "active"))

			Expect(err).NotTo(HaveOccurred())
			Expect(w.membership(user.ID, org.ID).Role).To(Equal(model.RoleMember))
		})

		It("drops events for unknown users or organizations", func() {
			data := membership("admin", "active")
			data["user_id"] = "user_unknown"

			result, err := process("organization_membership.created", data)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ResultProcessed))
			Expect(w.memberships).To(BeEmpty())

			data = membership("admin", "active")
			data["organization_id"] = "org_unknown"
			_, err = process("organization_membership.created", data)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.memberships).To(BeEmpty())
		})

		It("removes a membership", func() {
			w.addMember(100, user.ID, org.ID, model.RoleMember)

			_, err := process("organization_membership.deleted", membership("member", "active"))

			Expect(err).NotTo(HaveOccurred())
			Expect(w.membership(user.ID, org.ID)).To(BeNil())
		})

		It("refuses to remove the last OWNER and acknowledges the event", func() {
			w.addMember(100, user.ID, org.ID, model.RoleOwner)

			result, err := process("organization_membership.deleted", membership("admin", "active"))

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ResultProcessed))
			Expect(w.owners(org.ID)).To(Equal(1))
		})
	})

	Describe("Process", func() {
		It("applies a replayed delivery once", func() {
			body := eventBody("user.created", userData)

			first, err := svc.Process(ctx, "msg_1", body)
			Expect(err).NotTo(HaveOccurred())
			second, err := svc.Process(ctx, "msg_1", body)
			Expect(err).NotTo(HaveOccurred())

			Expect(first).To(Equal(service.ResultProcessed))
			Expect(second).To(Equal(service.ResultDuplicate))
			Expect(w.users).To(HaveLen(1))
		})

		It("leaves the store unchanged when the same event arrives under new delivery ids", func() {
			w.addOrg(1, "acme")
			user := w.addUser(10, "ada@example.com")
			data := map[string]any{"user_id": *user.WorkOSID, "organization_id": "org_acme", "role": "admin", "status": "active"}

			_, err := svc.Process(ctx, "msg_1", eventBody("organization_membership.created", data))
			Expect(err).NotTo(HaveOccurred())
			before := *w.membership(user.ID, 1)

			_, err = svc.Process(ctx, "msg_2", eventBody("organization_membership.created", data))
			Expect(err).NotTo(HaveOccurred())
			after := *w.membership(user.ID, 1)

			Expect(after.ID).To(Equal(before.ID))
			Expect(after.Role).To(Equal(before.Role))
			Expect(after.JoinedAt).To(Equal(before.JoinedAt))
			Expect(w.memberships).To(HaveLen(1))
		})

		It("retries a delivery that failed before", func() {
			bad := eventBody("user.created", map[string]any{"id": "user_01"})
			_, err := svc.Process(ctx, "msg_1", bad)
			Expect(err).To(HaveOccurred())
			Expect(w.events["msg_1"].Error).NotTo(BeNil())

			_, err = svc.Process(ctx, "msg_1", bad)
			Expect(err).To(HaveOccurred())
			Expect(counter.counts["user.created/failed"]).To(Equal(2))
		})

		It("ignores unknown event types", func() {
			result, err := svc.Process(ctx, "msg_1", eventBody("session.created", map[string]any{"id": "s"}))

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ResultIgnored))
			Expect(w.events["msg_1"].ProcessedAt).NotTo(BeNil())
		})

		It("rejects bodies that are not events", func() {
			_, err := svc.Process(ctx, "msg_1", []byte(`{"data":{}}`))

			Expect(errors.Is(err, service.ErrMalformedEvent)).To(BeTrue())
			Expect(w.events).To(BeEmpty())
		})
	})
})
