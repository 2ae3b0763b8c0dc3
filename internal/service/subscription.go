package service

import (
	"context"
	"fmt"

	"tenantkit.dev/api/internal/authz"
	"tenantkit.dev/api/internal/model"
	"tenantkit.dev/api/internal/store"
)

// SubscriptionService is read-only. Rows are written by the billing side.
type SubscriptionService interface {
	List(ctx context.Context, actorID, orgID int64) ([]model.Subscription, error)
	HasActive(ctx context.Context, orgID int64) (bool, error)
}

type subscriptionService struct {
	subscriptions store.SubscriptionStore
	guard         authz.Authorizer
}

func NewSubscriptionService(subscriptions store.SubscriptionStore, guard authz.Authorizer) SubscriptionService {
	return &subscriptionService{subscriptions: subscriptions, guard: guard}
}

func (s *subscriptionService) List(ctx context.Context, actorID, orgID int64) ([]model.Subscription, error) {
	if _, err := s.guard.RequirePermission(ctx, actorID, orgID, model.PermOrganizationBillingRead); err != nil {
		return nil, err
	}
	subs, err := s.subscriptions.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	return subs, nil
}

func (s *subscriptionService) HasActive(ctx context.Context, orgID int64) (bool, error) {
	n, err := s.subscriptions.CountActive(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("counting active subscriptions: %w", err)
	}
	return n > 0, nil
}
