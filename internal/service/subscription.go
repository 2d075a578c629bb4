package service

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/domain/subscription"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/samber/lo"
)

// SubscriptionService resolves subscription activity and effective plan
// limits for a user. Pure reads, no side effects.
type SubscriptionService interface {
	// GetSubscriptionStatus computes whether the user may use the product
	// at all. Errors here mean "fail closed": subscription checks are a
	// security control, not best-effort.
	GetSubscriptionStatus(ctx context.Context, userID string) (*subscription.StatusResult, error)

	// GetEffectivePlanLimits merges platform-admin exemption, admin
	// override, paid subscription, and free tier, in that priority order.
	GetEffectivePlanLimits(ctx context.Context, userID string) (*types.EffectivePlanLimits, error)
}

type subscriptionService struct {
	ServiceParams
}

// NewSubscriptionService creates a new subscription resolver.
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

func (s *subscriptionService) GetSubscriptionStatus(ctx context.Context, userID string) (*subscription.StatusResult, error) {
	record, err := s.SubscriptionRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// No record: the free tier is always active.
	if record == nil {
		return &subscription.StatusResult{IsActive: true}, nil
	}

	now := time.Now().UTC()
	periodEnd := time.UnixMilli(record.CurrentPeriodEnd).UTC()
	result := &subscription.StatusResult{ExpiresAt: lo.ToPtr(periodEnd)}

	switch record.Status {
	case subscription.StatusCanceled, subscription.StatusPaused:
		result.IsActive = false
		result.IsExpired = true

	case subscription.StatusPastDue:
		// A payment failure grants a 24h grace window measured from the
		// last payment attempt. No recorded attempt means no grace.
		if record.LastPaymentAttempt == nil {
			result.IsActive = false
			result.IsExpired = true
			break
		}
		graceEnd := time.UnixMilli(*record.LastPaymentAttempt).Add(subscription.GracePeriod).UTC()
		result.GracePeriodEndsAt = lo.ToPtr(graceEnd)
		if now.Before(graceEnd) {
			result.IsActive = true
		} else {
			result.IsActive = false
			result.IsExpired = true
		}

	default:
		result.IsActive = record.Status == subscription.StatusActive
		result.IsExpired = !result.IsActive
	}

	return result, nil
}

func (s *subscriptionService) GetEffectivePlanLimits(ctx context.Context, userID string) (*types.EffectivePlanLimits, error) {
	// Platform admins are exempt from every quota dimension.
	isAdmin, err := s.AdminRepo.IsPlatformAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return &types.EffectivePlanLimits{
			PlanID: s.basePlanID(ctx, userID),
			Limits: types.AdminLimits(),
			Source: types.LimitSourceAdminOverride,
		}, nil
	}

	// An unexpired override layers onto the free-tier defaults; the plan
	// id is still reported from the user's subscription when one exists.
	override, err := s.OverrideRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if override != nil && override.OverrideQuotas != nil && !override.IsExpired(time.Now().UTC()) {
		return &types.EffectivePlanLimits{
			PlanID: s.basePlanID(ctx, userID),
			Limits: override.OverrideQuotas.Apply(types.FreeTierLimits()),
			Source: types.LimitSourceAdminOverride,
		}, nil
	}

	record, err := s.SubscriptionRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return &types.EffectivePlanLimits{
			PlanID: record.PlanID,
			Limits: types.GetPlanLimits(record.PlanID),
			Source: types.LimitSourceSubscription,
		}, nil
	}

	return &types.EffectivePlanLimits{
		PlanID: types.PlanFree,
		Limits: types.FreeTierLimits(),
		Source: types.LimitSourceFreeTier,
	}, nil
}

// basePlanID resolves the plan id to report alongside override limits.
func (s *subscriptionService) basePlanID(ctx context.Context, userID string) types.PlanID {
	record, err := s.SubscriptionRepo.Get(ctx, userID)
	if err != nil || record == nil {
		return types.PlanFree
	}
	return record.PlanID
}
