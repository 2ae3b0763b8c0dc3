package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/http/handler"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

var _ = Describe("AuditLogHandler", func() {
	var (
		router   *gin.Engine
		auditSvc *mockAuditLogService
	)

	BeforeEach(func() {
		auditSvc = &mockAuditLogService{}
		h := handler.NewAuditLogHandler(auditSvc)

		var authed *gin.RouterGroup
		router, authed = newSessionRouter(&mockAuthService{}, &model.User{ID: 7})
		authed.GET("/orgs/:orgID/audit-logs", h.List)
	})

	It("passes the cursor and returns the next one as a string", func() {
		actor := int64(7)
		auditSvc.listFn = func(_ context.Context, _, orgID, before int64, limit int) (*service.AuditLogPage, error) {
			Expect(orgID).To(Equal(int64(100)))
			Expect(before).To(Equal(int64(900)))
			Expect(limit).To(Equal(2))
			return &service.AuditLogPage{
				Entries: []model.AuditLog{
					{ID: 899, OrganizationID: orgID, UserID: &actor, Action: model.AuditMemberInvited},
					{ID: 850, OrganizationID: orgID, Action: model.AuditAPIKeyRevoked},
				},
				NextBefore: 850,
			}, nil
		}

		w := doJSON(router, http.MethodGet, "/orgs/100/audit-logs?before=900&limit=2", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp["next_before"]).To(Equal("850"))
		entries := resp["entries"].([]any)
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].(map[string]any)["user_id"]).To(Equal("7"))
		Expect(entries[1].(map[string]any)["user_id"]).To(BeNil())
	})

	It("omits next_before on the last page", func() {
		w := doJSON(router, http.MethodGet, "/orgs/100/audit-logs", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).NotTo(HaveKey("next_before"))
	})

	DescribeTable("rejects malformed paging",
		func(query string) {
			w := doJSON(router, http.MethodGet, "/orgs/100/audit-logs?"+query, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		},
		Entry("non-numeric cursor", "before=abc"),
		Entry("negative cursor", "before=-1"),
		Entry("zero limit", "limit=0"),
	)

	It("forbids members without audit access", func() {
		auditSvc.listFn = func(_ context.Context, _, _, _ int64, _ int) (*service.AuditLogPage, error) {
			return nil, domain.ErrForbidden
		}

		w := doJSON(router, http.MethodGet, "/orgs/100/audit-logs", nil)

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})
})
