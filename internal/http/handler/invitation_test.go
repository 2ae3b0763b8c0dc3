package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/http/handler"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

var _ = Describe("InvitationHandler", func() {
	var (
		router      *gin.Engine
		svc         *mockInvitationService
		authSvc     *mockAuthService
		adminAPIKey string
	)

	BeforeEach(func() {
		svc = &mockInvitationService{}
		authSvc = &mockAuthService{}
		adminAPIKey = "test-admin-key"
		h := handler.NewInvitationHandler(svc, adminAPIKey)

		var authed *gin.RouterGroup
		router, authed = newSessionRouter(authSvc, &model.User{ID: 7, Email: "owner@example.com"})

		router.GET("/invites/validate", h.Validate)
		authed.GET("/orgs/:orgID/invitations", h.List)
		authed.DELETE("/orgs/:orgID/invitations/:invitationID", h.Revoke)

		admin := router.Group("/admin/invites")
		admin.Use(h.RequireAdminAPIKey())
		admin.POST("/expire", h.ExpireStale)
	})

	Describe("Validate", func() {
		It("returns 200 with invitation info for valid token", func() {
			svc.validateTokenFn = func(_ context.Context, token string) (*model.Invitation, error) {
				Expect(token).To(Equal("valid-token"))
				return &model.Invitation{
					ID:        1,
					Email:     "test@example.com",
					Role:      model.RoleMember,
					Status:    model.InvitationStatusPending,
					ExpiresAt: time.Now().Add(24 * time.Hour),
				}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/invites/validate?token=valid-token", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["email"]).To(Equal("test@example.com"))
			Expect(resp["role"]).To(Equal("MEMBER"))
			Expect(resp["valid"]).To(BeTrue())
			Expect(resp).NotTo(HaveKey("id"))
		})

		It("returns 400 when token is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/invites/validate", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		DescribeTable("maps token failures",
			func(err error, status int, code string) {
				svc.validateTokenFn = func(_ context.Context, _ string) (*model.Invitation, error) {
					return nil, err
				}

				req := httptest.NewRequest(http.MethodGet, "/invites/validate?token=t", nil)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				Expect(w.Code).To(Equal(status))
				Expect(decode(w)["code"]).To(Equal(code))
			},
			Entry("not found", service.ErrInviteNotFound, http.StatusNotFound, "not_found"),
			Entry("expired", service.ErrInviteExpired, http.StatusGone, "expired"),
			Entry("already used", service.ErrInviteAlreadyUsed, http.StatusGone, "already_used"),
			Entry("revoked", service.ErrInviteRevoked, http.StatusGone, "revoked"),
		)
	})

	Describe("List", func() {
		It("lists pending invitations of the organization as the session user", func() {
			svc.listPendingFn = func(_ context.Context, actorID, orgID int64) ([]model.Invitation, error) {
				Expect(actorID).To(Equal(int64(7)))
				Expect(orgID).To(Equal(int64(100)))
				return []model.Invitation{{
					ID:             1,
					OrganizationID: 100,
					Email:          "pending@example.com",
					Status:         model.InvitationStatusPending,
					ExpiresAt:      time.Now().Add(24 * time.Hour),
					CreatedAt:      time.Now(),
				}}, nil
			}

			w := doJSON(router, http.MethodGet, "/orgs/100/invitations", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			invitations := decode(w)["invitations"].([]any)
			Expect(invitations).To(HaveLen(1))
			Expect(invitations[0].(map[string]any)["id"]).To(Equal("1"))
		})

		It("returns 403 for a user outside the organization", func() {
			svc.listPendingFn = func(_ context.Context, _, _ int64) ([]model.Invitation, error) {
				return nil, domain.ErrForbidden
			}

			w := doJSON(router, http.MethodGet, "/orgs/100/invitations", nil)

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decode(w)["code"]).To(Equal("forbidden"))
		})

		It("returns 401 without a session", func() {
			req := httptest.NewRequest(http.MethodGet, "/orgs/100/invitations", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 on a non-numeric organization id", func() {
			w := doJSON(router, http.MethodGet, "/orgs/acme/invitations", nil)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Revoke", func() {
		It("returns 200 when invitation is revoked successfully", func() {
			svc.revokeFn = func(_ context.Context, _, orgID, id int64) (*model.Invitation, error) {
				Expect(orgID).To(Equal(int64(100)))
				Expect(id).To(Equal(int64(1)))
				return &model.Invitation{
					ID:        1,
					Email:     "test@example.com",
					Status:    model.InvitationStatusRevoked,
					ExpiresAt: time.Now().Add(24 * time.Hour),
					CreatedAt: time.Now(),
				}, nil
			}

			w := doJSON(router, http.MethodDelete, "/orgs/100/invitations/1", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["status"]).To(Equal("revoked"))
		})

		It("returns 404 when invitation not found", func() {
			svc.revokeFn = func(_ context.Context, _, _, _ int64) (*model.Invitation, error) {
				return nil, service.ErrInviteNotFound
			}

			w := doJSON(router, http.MethodDelete, "/orgs/100/invitations/999", nil)

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decode(w)["code"]).To(Equal("invite_not_found"))
		})
	})

	Describe("RequireAdminAPIKey middleware", func() {
		It("accepts Bearer token authorization", func() {
			called := false
			svc.expireStaleFn = func(_ context.Context) error {
				called = true
				return nil
			}

			req := httptest.NewRequest(http.MethodPost, "/admin/invites/expire", nil)
			req.Header.Set("Authorization", "Bearer "+adminAPIKey)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(called).To(BeTrue())
		})

		It("rejects a wrong key", func() {
			req := httptest.NewRequest(http.MethodPost, "/admin/invites/expire", nil)
			req.Header.Set("X-Admin-API-Key", "wrong-key")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
