package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/audit"
	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

const (
	defaultMonitorMethod   = "GET"
	defaultExpectedStatus  = 200
	defaultMonitorTimeout  = 30
	defaultMonitorInterval = 300
)

var monitorMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true, "HEAD": true,
}

// MonitorInput is used for both create and update. On update, nil fields
// keep their stored value.
type MonitorInput struct {
	Name            *string
	URL             *string
	Method          *string
	Headers         map[string]string
	ExpectedStatus  *int
	TimeoutSeconds  *int
	IntervalSeconds *int
	IsActive        *bool
}

type MonitorService interface {
	List(ctx context.Context, p authz.Principal, orgID int64) ([]model.Monitor, error)
	Get(ctx context.Context, p authz.Principal, orgID, monitorID int64) (*model.Monitor, error)
	Create(ctx context.Context, p authz.Principal, orgID int64, in MonitorInput) (*model.Monitor, error)
	Update(ctx context.Context, p authz.Principal, orgID, monitorID int64, in MonitorInput) (*model.Monitor, error)
	Delete(ctx context.Context, p authz.Principal, orgID, monitorID int64) error
}

type monitorService struct {
	monitors store.MonitorStore
	guard    authz.Authorizer
	recorder audit.Recorder
}

func NewMonitorService(monitors store.MonitorStore, guard authz.Authorizer, recorder audit.Recorder) MonitorService {
	return &monitorService{monitors: monitors, guard: guard, recorder: recorder}
}

func (s *monitorService) List(ctx context.Context, p authz.Principal, orgID int64) ([]model.Monitor, error) {
	if err := s.guard.Authorize(ctx, p, orgID, model.PermMonitorsRead); err != nil {
		return nil, err
	}
	monitors, err := s.monitors.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing monitors: %w", err)
	}
	return monitors, nil
}

func (s *monitorService) Get(ctx context.Context, p authz.Principal, orgID, monitorID int64) (*model.Monitor, error) {
	if err := s.guard.Authorize(ctx, p, orgID, model.PermMonitorsRead); err != nil {
		return nil, err
	}
	m, err := s.monitors.GetByID(ctx, orgID, monitorID)
	if err != nil {
		return nil, storeErr("getting monitor", err)
	}
	return m, nil
}

func (s *monitorService) Create(ctx context.Context, p authz.Principal, orgID int64, in MonitorInput) (*model.Monitor, error) {
	if err := s.guard.Authorize(ctx, p, orgID, model.PermMonitorsWrite); err != nil {
		return nil, err
	}

	m := &model.Monitor{
		ID:              id.New(),
		OrganizationID:  orgID,
		Method:          defaultMonitorMethod,
		ExpectedStatus:  defaultExpectedStatus,
		TimeoutSeconds:  defaultMonitorTimeout,
		IntervalSeconds: defaultMonitorInterval,
		IsActive:        true,
	}
	v := domain.NewValidationError()
	if in.Name == nil {
		v.Add("name", "is required")
	}
	if in.URL == nil {
		v.Add("url", "is required")
	}
	applyMonitorInput(m, in)
	validateMonitor(v, m)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.monitors.Create(ctx, m); err != nil {
		return nil, storeErr("creating monitor", err)
	}

	s.record(ctx, p, m, model.AuditMonitorCreated, map[string]any{"name": m.Name, "url": m.URL})
	return m, nil
}

func (s *monitorService) Update(ctx context.Context, p authz.Principal, orgID, monitorID int64, in MonitorInput) (*model.Monitor, error) {
	if err := s.guard.Authorize(ctx, p, orgID, model.PermMonitorsWrite); err != nil {
		return nil, err
	}

	m, err := s.monitors.GetByID(ctx, orgID, monitorID)
	if err != nil {
		return nil, storeErr("getting monitor", err)
	}

	applyMonitorInput(m, in)
	v := domain.NewValidationError()
	validateMonitor(v, m)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.monitors.Update(ctx, m); err != nil {
		return nil, storeErr("updating monitor", err)
	}

	s.record(ctx, p, m, model.AuditMonitorUpdated, map[string]any{"name": m.Name, "url": m.URL, "isActive": m.IsActive})
	return m, nil
}

func (s *monitorService) Delete(ctx context.Context, p authz.Principal, orgID, monitorID int64) error {
	if err := s.guard.Authorize(ctx, p, orgID, model.PermMonitorsDelete); err != nil {
		return err
	}

	m, err := s.monitors.GetByID(ctx, orgID, monitorID)
	if err != nil {
		return storeErr("getting monitor", err)
	}
	if err := s.monitors.Delete(ctx, orgID, monitorID); err != nil {
		return storeErr("deleting monitor", err)
	}

	s.record(ctx, p, m, model.AuditMonitorDeleted, map[string]any{"name": m.Name})
	return nil
}

func (s *monitorService) record(ctx context.Context, p authz.Principal, m *model.Monitor, action model.AuditAction, meta map[string]any) {
	if p.APIKey != nil {
		meta["apiKeyId"] = strconv.FormatInt(p.APIKey.ID, 10)
	}
	s.recorder.Record(ctx, audit.Entry{
		OrganizationID: m.OrganizationID,
		ActorID:        p.ActorID(),
		Action:         action,
		ResourceType:   model.ResourceMonitor,
		ResourceID:     strconv.FormatInt(m.ID, 10),
		Metadata:       meta,
	})
}

func applyMonitorInput(m *model.Monitor, in MonitorInput) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.URL != nil {
		m.URL = strings.TrimSpace(*in.URL)
	}
	if in.Method != nil {
		m.Method = strings.ToUpper(strings.TrimSpace(*in.Method))
	}
	if in.Headers != nil {
		m.Headers = in.Headers
	}
	if in.ExpectedStatus != nil {
		m.ExpectedStatus = *in.ExpectedStatus
	}
	if in.TimeoutSeconds != nil {
		m.TimeoutSeconds = *in.TimeoutSeconds
	}
	if in.IntervalSeconds != nil {
		m.IntervalSeconds = *in.IntervalSeconds
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
}

func validateMonitor(v *domain.ValidationError, m *model.Monitor) {
	if n := utf8.RuneCountInString(m.Name); n < 1 || n > 100 {
		v.Add("name", "must be 1-100 characters")
	}
	if !validHTTPURL(m.URL) {
		v.Add("url", "must be an absolute http(s) URL")
	}
	if !monitorMethods[m.Method] {
		v.Add("method", "must be one of GET, POST, PUT, PATCH, DELETE, HEAD")
	}
	if m.ExpectedStatus < 100 || m.ExpectedStatus > 599 {
		v.Add("expected_status", "must be between 100 and 599")
	}
	if m.TimeoutSeconds < 1 || m.TimeoutSeconds > 60 {
		v.Add("timeout_seconds", "must be between 1 and 60")
	}
	if m.IntervalSeconds < 30 || m.IntervalSeconds > 86400 {
		v.Add("interval_seconds", "must be between 30 and 86400")
	}
}
