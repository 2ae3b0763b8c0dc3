package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/http/middleware"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/service"
)

const testSessionID int64 = 42

// newSessionRouter returns an engine whose routes run as user behind the
// real session middleware.
func newSessionRouter(auth *mockAuthService, user *model.User) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	auth.validateSessionFn = func(_ context.Context, sessionID int64) (*model.User, error) {
		if sessionID != testSessionID {
			return nil, service.ErrSessionExpired
		}
		return user, nil
	}
	router := gin.New()
	return router, router.Group("", middleware.RequireAuth(auth, false))
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionIDHeader, strconv.FormatInt(testSessionID, 10))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

type mockAuthService struct {
	handleCallbackFn  func(ctx context.Context, code string) (*service.CallbackResult, error)
	validateSessionFn func(ctx context.Context, sessionID int64) (*model.User, error)
	getSessionFn      func(ctx context.Context, sessionID int64) (*model.Session, error)
	logoutFn          func(ctx context.Context, sessionID int64) error
}

func (m *mockAuthService) GetAuthorizationURL(state string, opts ...service.AuthURLOption) (string, error) {
	return "https://auth.example.com/authorize?state=" + state, nil
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*service.CallbackResult, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, service.ErrInvalidCode
}

func (m *mockAuthService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, error) {
	if m.validateSessionFn != nil {
		return m.validateSessionFn(ctx, sessionID)
	}
	return nil, service.ErrSessionExpired
}

func (m *mockAuthService) GetSessionByID(ctx context.Context, sessionID int64) (*model.Session, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, sessionID)
	}
	return nil, service.ErrSessionExpired
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID int64) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetLogoutURL(workosSessionID, returnTo string) string {
	return "https://auth.example.com/logout?session_id=" + workosSessionID + "&return_to=" + returnTo
}

type mockInvitationService struct {
	validateTokenFn func(ctx context.Context, token string) (*model.Invitation, error)
	acceptFn        func(ctx context.Context, token string, user *model.User) (*model.Invitation, error)
	revokeFn        func(ctx context.Context, actorID, orgID, invitationID int64) (*model.Invitation, error)
	listPendingFn   func(ctx context.Context, actorID, orgID int64) ([]model.Invitation, error)
	expireStaleFn   func(ctx context.Context) error
}

func (m *mockInvitationService) ValidateToken(ctx context.Context, token string) (*model.Invitation, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, service.ErrInviteNotFound
}

func (m *mockInvitationService) Accept(ctx context.Context, token string, user *model.User) (*model.Invitation, error) {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, token, user)
	}
	return nil, service.ErrInviteNotFound
}

func (m *mockInvitationService) Revoke(ctx context.Context, actorID, orgID, invitationID int64) (*model.Invitation, error) {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, actorID, orgID, invitationID)
	}
	return nil, service.ErrInviteNotFound
}

func (m *mockInvitationService) ListPending(ctx context.Context, actorID, orgID int64) ([]model.Invitation, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx, actorID, orgID)
	}
	return []model.Invitation{}, nil
}

func (m *mockInvitationService) ExpireStale(ctx context.Context) error {
	if m.expireStaleFn != nil {
		return m.expireStaleFn(ctx)
	}
	return nil
}

type mockOrganizationService struct {
	createFn func(ctx context.Context, actorID int64, params service.CreateOrganizationParams) (*model.Organization, error)
	getFn    func(ctx context.Context, actorID, orgID int64) (*model.UserOrganization, error)
	listFn   func(ctx context.Context, actorID int64) ([]model.UserOrganization, error)
	statsFn  func(ctx context.Context, actorID, orgID int64) (*model.OrganizationStats, error)
	updateFn func(ctx context.Context, actorID, orgID int64, params service.UpdateOrganizationParams) (*model.Organization, error)
	deleteFn func(ctx context.Context, actorID, orgID int64, confirmation string) error
}

func (m *mockOrganizationService) Create(ctx context.Context, actorID int64, params service.CreateOrganizationParams) (*model.Organization, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actorID, params)
	}
	return nil, nil
}

func (m *mockOrganizationService) Get(ctx context.Context, actorID, orgID int64) (*model.UserOrganization, error) {
	if m.getFn != nil {
		return m.getFn(ctx, actorID, orgID)
	}
	return nil, nil
}

func (m *mockOrganizationService) ListForUser(ctx context.Context, actorID int64) ([]model.UserOrganization, error) {
	if m.listFn != nil {
		return m.listFn(ctx, actorID)
	}
	return []model.UserOrganization{}, nil
}

func (m *mockOrganizationService) Stats(ctx context.Context, actorID, orgID int64) (*model.OrganizationStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, actorID, orgID)
	}
	return &model.OrganizationStats{}, nil
}

func (m *mockOrganizationService) Update(ctx context.Context, actorID, orgID int64, params service.UpdateOrganizationParams) (*model.Organization, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, actorID, orgID, params)
	}
	return nil, nil
}

func (m *mockOrganizationService) Delete(ctx context.Context, actorID, orgID int64, confirmation string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actorID, orgID, confirmation)
	}
	return nil
}

type mockAccountService struct {
	updateProfileFn func(ctx context.Context, actor *model.User, params service.UpdateProfileParams) (*model.User, error)
	deleteAccountFn func(ctx context.Context, actor *model.User, confirmation string) error
}

func (m *mockAccountService) UpdateProfile(ctx context.Context, actor *model.User, params service.UpdateProfileParams) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, actor, params)
	}
	return actor, nil
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, actor *model.User, confirmation string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(ctx, actor, confirmation)
	}
	return nil
}

type mockMembershipService struct {
	listFn       func(ctx context.Context, actorID, orgID int64) ([]model.Member, error)
	inviteFn     func(ctx context.Context, actorID, orgID int64, email string, role model.Role) (*service.InviteResult, error)
	updateRoleFn func(ctx context.Context, actorID, orgID, membershipID int64, role model.Role) (*model.Membership, error)
	removeFn     func(ctx context.Context, actorID, orgID, membershipID int64) error
	acceptFn     func(ctx context.Context, actorID, orgID int64) (*model.Membership, error)
}

func (m *mockMembershipService) List(ctx context.Context, actorID, orgID int64) ([]model.Member, error) {
	if m.listFn != nil {
		return m.listFn(ctx, actorID, orgID)
	}
	return []model.Member{}, nil
}

func (m *mockMembershipService) ListPending(ctx context.Context, actorID, orgID int64) ([]model.Member, error) {
	return []model.Member{}, nil
}

func (m *mockMembershipService) Invite(ctx context.Context, actorID, orgID int64, email string, role model.Role) (*service.InviteResult, error) {
	if m.inviteFn != nil {
		return m.inviteFn(ctx, actorID, orgID, email, role)
	}
	return nil, nil
}

func (m *mockMembershipService) UpdateRole(ctx context.Context, actorID, orgID, membershipID int64, role model.Role) (*model.Membership, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, actorID, orgID, membershipID, role)
	}
	return nil, nil
}

func (m *mockMembershipService) Remove(ctx context.Context, actorID, orgID, membershipID int64) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, actorID, orgID, membershipID)
	}
	return nil
}

func (m *mockMembershipService) Accept(ctx context.Context, actorID, orgID int64) (*model.Membership, error) {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, actorID, orgID)
	}
	return nil, nil
}

type mockAPIKeyService struct {
	createFn       func(ctx context.Context, actorID, orgID int64, params service.CreateAPIKeyParams) (*service.CreatedAPIKey, error)
	listFn         func(ctx context.Context, actorID, orgID int64) ([]model.APIKey, error)
	revokeFn       func(ctx context.Context, actorID, orgID, keyID int64) error
	authenticateFn func(ctx context.Context, secret string) (*model.APIKey, error)
}

func (m *mockAPIKeyService) Create(ctx context.Context, actorID, orgID int64, params service.CreateAPIKeyParams) (*service.CreatedAPIKey, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actorID, orgID, params)
	}
	return nil, nil
}

func (m *mockAPIKeyService) List(ctx context.Context, actorID, orgID int64) ([]model.APIKey, error) {
	if m.listFn != nil {
		return m.listFn(ctx, actorID, orgID)
	}
	return []model.APIKey{}, nil
}

func (m *mockAPIKeyService) Revoke(ctx context.Context, actorID, orgID, keyID int64) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, actorID, orgID, keyID)
	}
	return nil
}

func (m *mockAPIKeyService) Authenticate(ctx context.Context, secret string) (*model.APIKey, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, secret)
	}
	return nil, service.ErrInvalidAPIKey
}

type mockMonitorService struct {
	listFn   func(ctx context.Context, p authz.Principal, orgID int64) ([]model.Monitor, error)
	createFn func(ctx context.Context, p authz.Principal, orgID int64, in service.MonitorInput) (*model.Monitor, error)
}

func (m *mockMonitorService) List(ctx context.Context, p authz.Principal, orgID int64) ([]model.Monitor, error) {
	if m.listFn != nil {
		return m.listFn(ctx, p, orgID)
	}
	return []model.Monitor{}, nil
}

func (m *mockMonitorService) Get(ctx context.Context, p authz.Principal, orgID, monitorID int64) (*model.Monitor, error) {
	return nil, nil
}

func (m *mockMonitorService) Create(ctx context.Context, p authz.Principal, orgID int64, in service.MonitorInput) (*model.Monitor, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p, orgID, in)
	}
	return nil, nil
}

func (m *mockMonitorService) Update(ctx context.Context, p authz.Principal, orgID, monitorID int64, in service.MonitorInput) (*model.Monitor, error) {
	return nil, nil
}

func (m *mockMonitorService) Delete(ctx context.Context, p authz.Principal, orgID, monitorID int64) error {
	return nil
}

type mockAuditLogService struct {
	listFn func(ctx context.Context, actorID, orgID, before int64, limit int) (*service.AuditLogPage, error)
}

func (m *mockAuditLogService) List(ctx context.Context, actorID, orgID, before int64, limit int) (*service.AuditLogPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, actorID, orgID, before, limit)
	}
	return &service.AuditLogPage{}, nil
}
