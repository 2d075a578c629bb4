package service

import (
	"testing"
	"time"

	"github.com/docuforge/docuforge/internal/domain/subscription"
	"github.com/docuforge/docuforge/internal/testutil"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SubscriptionService
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSubscriptionService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *SubscriptionServiceSuite) seedSubscription(userID string, record subscription.Record) {
	s.SeedDocument(types.CollectionSubscriptions, userID, record)
}

func (s *SubscriptionServiceSuite) seedOverride(userID string, override subscription.QuotaOverride) {
	s.SeedDocument(types.CollectionOverrides, userID, override)
}

func (s *SubscriptionServiceSuite) TestStatusWithoutRecordIsActive() {
	status, err := s.service.GetSubscriptionStatus(s.GetContext(), "user-1")
	s.NoError(err)
	s.True(status.IsActive)
	s.False(status.IsExpired)
}

func (s *SubscriptionServiceSuite) TestStatusActiveSubscription() {
	now := time.Now().UTC()
	s.seedSubscription("user-1", subscription.Record{
		PlanID:             types.PlanPro,
		Status:             subscription.StatusActive,
		CurrentPeriodStart: now.AddDate(0, -1, 0).UnixMilli(),
		CurrentPeriodEnd:   now.AddDate(0, 1, 0).UnixMilli(),
	})

	status, err := s.service.GetSubscriptionStatus(s.GetContext(), "user-1")
	s.NoError(err)
	s.True(status.IsActive)
	s.False(status.IsExpired)
	s.NotNil(status.ExpiresAt)
}

func (s *SubscriptionServiceSuite) TestStatusCanceledAndPaused() {
	for _, st := range []subscription.Status{subscription.StatusCanceled, subscription.StatusPaused} {
		userID := "user-" + string(st)
		s.seedSubscription(userID, subscription.Record{
			PlanID:           types.PlanStarter,
			Status:           st,
			CurrentPeriodEnd: time.Now().UTC().AddDate(0, 1, 0).UnixMilli(),
		})

		status, err := s.service.GetSubscriptionStatus(s.GetContext(), userID)
		s.NoError(err)
		s.False(status.IsActive, "status %s must be inactive", st)
		s.True(status.IsExpired)
	}
}

func (s *SubscriptionServiceSuite) TestStatusPastDueWithinGrace() {
	now := time.Now().UTC()
	s.seedSubscription("user-1", subscription.Record{
		PlanID:             types.PlanPro,
		Status:             subscription.StatusPastDue,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0).UnixMilli(),
		LastPaymentAttempt: lo.ToPtr(now.Add(-time.Hour).UnixMilli()),
	})

	status, err := s.service.GetSubscriptionStatus(s.GetContext(), "user-1")
	s.NoError(err)
	s.True(status.IsActive)
	s.NotNil(status.GracePeriodEndsAt)
	s.True(status.GracePeriodEndsAt.After(now))
}

func (s *SubscriptionServiceSuite) TestStatusPastDueBeyondGrace() {
	now := time.Now().UTC()
	s.seedSubscription("user-1", subscription.Record{
		PlanID:             types.PlanPro,
		Status:             subscription.StatusPastDue,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0).UnixMilli(),
		LastPaymentAttempt: lo.ToPtr(now.Add(-25 * time.Hour).UnixMilli()),
	})

	status, err := s.service.GetSubscriptionStatus(s.GetContext(), "user-1")
	s.NoError(err)
	s.False(status.IsActive)
	s.True(status.IsExpired)
	s.NotNil(status.GracePeriodEndsAt)
}

func (s *SubscriptionServiceSuite) TestStatusPastDueWithoutPaymentAttempt() {
	s.seedSubscription("user-1", subscription.Record{
		PlanID:           types.PlanStarter,
		Status:           subscription.StatusPastDue,
		CurrentPeriodEnd: time.Now().UTC().AddDate(0, 1, 0).UnixMilli(),
	})

	status, err := s.service.GetSubscriptionStatus(s.GetContext(), "user-1")
	s.NoError(err)
	s.False(status.IsActive)
	s.True(status.IsExpired)
}

func (s *SubscriptionServiceSuite) TestLimitsDefaultToFreeTier() {
	limits, err := s.service.GetEffectivePlanLimits(s.GetContext(), "user-1")
	s.NoError(err)
	s.Equal(types.PlanFree, limits.PlanID)
	s.Equal(types.LimitSourceFreeTier, limits.Source)
	s.Equal(types.FreeTierLimits(), limits.Limits)
}

func (s *SubscriptionServiceSuite) TestLimitsFromSubscription() {
	s.seedSubscription("user-1", subscription.Record{
		PlanID:           types.PlanPro,
		Status:           subscription.StatusActive,
		CurrentPeriodEnd: time.Now().UTC().AddDate(0, 1, 0).UnixMilli(),
	})

	limits, err := s.service.GetEffectivePlanLimits(s.GetContext(), "user-1")
	s.NoError(err)
	s.Equal(types.PlanPro, limits.PlanID)
	s.Equal(types.LimitSourceSubscription, limits.Source)
	s.Equal(200, limits.Limits.DocumentsPerDay)
}

func (s *SubscriptionServiceSuite) TestLimitsAdminBeatsEverything() {
	s.SeedPlatformAdmin("admin-1")
	s.seedSubscription("admin-1", subscription.Record{
		PlanID:           types.PlanStarter,
		Status:           subscription.StatusActive,
		CurrentPeriodEnd: time.Now().UTC().AddDate(0, 1, 0).UnixMilli(),
	})

	limits, err := s.service.GetEffectivePlanLimits(s.GetContext(), "admin-1")
	s.NoError(err)
	s.Equal(types.LimitSourceAdminOverride, limits.Source)
	s.Equal(types.AdminLimits(), limits.Limits)
	// The plan id still reflects the underlying subscription.
	s.Equal(types.PlanStarter, limits.PlanID)
}

func (s *SubscriptionServiceSuite) TestLimitsOverrideLayersOnFreeTier() {
	s.seedOverride("user-1", subscription.QuotaOverride{
		OverrideQuotas: &subscription.OverrideQuotas{
			DocumentsPerDay: lo.ToPtr(100),
		},
		Reason:    "support escalation",
		CreatedBy: "admin-1",
	})

	limits, err := s.service.GetEffectivePlanLimits(s.GetContext(), "user-1")
	s.NoError(err)
	s.Equal(types.LimitSourceAdminOverride, limits.Source)
	s.Equal(100, limits.Limits.DocumentsPerDay)
	// Untouched dimensions keep the free-tier defaults.
	s.Equal(types.FreeTierLimits().DocumentsPerMonth, limits.Limits.DocumentsPerMonth)
}

func (s *SubscriptionServiceSuite) TestLimitsExpiredOverrideIgnored() {
	s.seedOverride("user-1", subscription.QuotaOverride{
		OverrideQuotas: &subscription.OverrideQuotas{
			DocumentsPerDay: lo.ToPtr(100),
		},
		ExpiresAt: lo.ToPtr(time.Now().UTC().Add(-time.Hour).UnixMilli()),
		CreatedBy: "admin-1",
	})
	s.seedSubscription("user-1", subscription.Record{
		PlanID:           types.PlanStarter,
		Status:           subscription.StatusActive,
		CurrentPeriodEnd: time.Now().UTC().AddDate(0, 1, 0).UnixMilli(),
	})

	limits, err := s.service.GetEffectivePlanLimits(s.GetContext(), "user-1")
	s.NoError(err)
	s.Equal(types.LimitSourceSubscription, limits.Source)
	s.Equal(50, limits.Limits.DocumentsPerDay)
}
