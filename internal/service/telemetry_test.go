package service

import (
	"testing"
	"time"

	"github.com/docuforge/docuforge/internal/domain/security"
	"github.com/docuforge/docuforge/internal/testutil"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/stretchr/testify/suite"
)

type TelemetryServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TelemetryService
}

func TestTelemetryService(t *testing.T) {
	suite.Run(t, new(TelemetryServiceSuite))
}

func (s *TelemetryServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTelemetryService(newTestServiceParams(&s.BaseServiceTestSuite))
}

// appendEvents writes count events of one type for a user, spread over the
// last few minutes so every key is unique.
func (s *TelemetryServiceSuite) appendEvents(userID string, eventType types.SecurityEventType, count int) {
	base := time.Now().UTC().Add(-10 * time.Minute).UnixMilli()
	for i := 0; i < count; i++ {
		err := s.GetStores().SecurityEvent.Append(s.GetContext(), &security.Event{
			EventType: eventType,
			Severity:  types.SeverityWarning,
			UserID:    userID,
			Message:   "seeded event",
			Timestamp: base + int64(i),
		})
		s.Require().NoError(err)
	}
}

func (s *TelemetryServiceSuite) notifications() []*security.Notification {
	list, err := s.GetStores().Notification.List(s.GetContext(), 0)
	s.Require().NoError(err)
	return list
}

func (s *TelemetryServiceSuite) TestRecordEventDefaultsAndPersists() {
	s.service.RecordSecurityEvent(s.GetContext(), &security.Event{
		EventType: types.SecurityEventQuotaViolation,
		UserID:    "user-1",
		Message:   "quota exceeded",
	})

	events, err := s.GetStores().SecurityEvent.ListSince(s.GetContext(), time.Now().UTC().Add(-time.Minute))
	s.NoError(err)
	s.Require().Len(events, 1)
	s.Equal(types.SeverityInfo, events[0].Severity)
	s.NotZero(events[0].Timestamp)
}

func (s *TelemetryServiceSuite) TestQuotaViolationThresholdNotCrossedAtExactCount() {
	s.appendEvents("user-1", types.SecurityEventQuotaViolation, types.QuotaViolationThreshold)

	s.service.CheckQuotaViolationThreshold(s.GetContext(), "user-1")
	s.Empty(s.notifications(), "the threshold must be strictly exceeded")
}

func (s *TelemetryServiceSuite) TestQuotaViolationThresholdCreatesCriticalNotification() {
	s.appendEvents("user-1", types.SecurityEventQuotaViolation, types.QuotaViolationThreshold+1)

	s.service.CheckQuotaViolationThreshold(s.GetContext(), "user-1")

	list := s.notifications()
	s.Require().Len(list, 1)
	s.Equal(types.SeverityCritical, list[0].Severity)
	s.Equal("user-1", list[0].UserID)
	s.NotEmpty(list[0].QuickActions)
	s.Equal(types.QuotaViolationThreshold+1, int(list[0].Metadata["count"].(float64)))
}

func (s *TelemetryServiceSuite) TestThresholdRefiresWithoutDeduplication() {
	s.appendEvents("user-1", types.SecurityEventQuotaViolation, types.QuotaViolationThreshold+1)

	s.service.CheckQuotaViolationThreshold(s.GetContext(), "user-1")
	// Timestamps differ between checks, so the second pass writes its own
	// notification document rather than colliding with the first.
	time.Sleep(2 * time.Millisecond)
	s.service.CheckQuotaViolationThreshold(s.GetContext(), "user-1")

	s.Len(s.notifications(), 2)
}

func (s *TelemetryServiceSuite) TestEventsOutsideWindowExcluded() {
	// Events older than the rolling hour must not count.
	base := time.Now().UTC().Add(-2 * time.Hour).UnixMilli()
	for i := 0; i < types.QuotaViolationThreshold+1; i++ {
		err := s.GetStores().SecurityEvent.Append(s.GetContext(), &security.Event{
			EventType: types.SecurityEventQuotaViolation,
			Severity:  types.SeverityWarning,
			UserID:    "user-1",
			Message:   "stale event",
			Timestamp: base + int64(i),
		})
		s.Require().NoError(err)
	}

	s.service.CheckQuotaViolationThreshold(s.GetContext(), "user-1")
	s.Empty(s.notifications())
}

func (s *TelemetryServiceSuite) TestOtherUsersDoNotCount() {
	s.appendEvents("user-2", types.SecurityEventQuotaViolation, types.QuotaViolationThreshold+1)

	s.service.CheckQuotaViolationThreshold(s.GetContext(), "user-1")
	s.Empty(s.notifications())
}

func (s *TelemetryServiceSuite) TestRateLimitThresholdWarns() {
	s.appendEvents("user-1", types.SecurityEventRateLimitHit, types.RateLimitHitThreshold+1)

	s.service.CheckRateLimitThreshold(s.GetContext(), "user-1")

	list := s.notifications()
	s.Require().Len(list, 1)
	s.Equal(types.SeverityWarning, list[0].Severity)
}

func (s *TelemetryServiceSuite) TestSuspiciousExportThresholdFreeTierOnly() {
	s.appendEvents("user-1", types.SecurityEventSuspiciousExport, types.SuspiciousExportThreshold+1)

	// Paying customers exporting heavily is expected behavior.
	s.service.CheckSuspiciousExportThreshold(s.GetContext(), "user-1", types.PlanPro)
	s.Empty(s.notifications())

	s.service.CheckSuspiciousExportThreshold(s.GetContext(), "user-1", types.PlanFree)
	list := s.notifications()
	s.Require().Len(list, 1)
	s.Equal(types.SeverityCritical, list[0].Severity)
}

func (s *TelemetryServiceSuite) TestLogHelpersSetSeverity() {
	s.service.LogQuotaViolation(s.GetContext(), "user-1", types.EndpointDownload, nil)
	s.service.LogUnauthorizedAccess(s.GetContext(), "user-1", "inactive subscription", nil)

	events, err := s.GetStores().SecurityEvent.ListSince(s.GetContext(), time.Now().UTC().Add(-time.Minute))
	s.NoError(err)
	s.Require().Len(events, 2)

	bySeverity := map[types.SecurityEventType]types.Severity{}
	for _, e := range events {
		bySeverity[e.EventType] = e.Severity
	}
	s.Equal(types.SeverityWarning, bySeverity[types.SecurityEventQuotaViolation])
	s.Equal(types.SeverityCritical, bySeverity[types.SecurityEventUnauthorizedAccess])
}
