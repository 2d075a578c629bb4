package service

import (
	"context"
	"fmt"
	"time"

	"github.com/docuforge/docuforge/internal/domain/security"
	"github.com/docuforge/docuforge/internal/types"
)

// TelemetryService records security events and runs threshold checks that
// may emit admin notifications. Everything here is best-effort: a telemetry
// failure is logged and swallowed, never propagated into the request path.
type TelemetryService interface {
	RecordSecurityEvent(ctx context.Context, event *security.Event)

	LogQuotaViolation(ctx context.Context, userID string, endpoint types.Endpoint, metadata map[string]interface{})
	LogRateLimitHit(ctx context.Context, userID string, endpoint types.Endpoint, metadata map[string]interface{})
	LogUnauthorizedAccess(ctx context.Context, userID string, message string, metadata map[string]interface{})
	LogSuspiciousExport(ctx context.Context, userID string, metadata map[string]interface{})

	CheckQuotaViolationThreshold(ctx context.Context, userID string)
	CheckRateLimitThreshold(ctx context.Context, userID string)
	CheckSuspiciousExportThreshold(ctx context.Context, userID string, planID types.PlanID)
}

type telemetryService struct {
	ServiceParams
}

// NewTelemetryService creates a new security telemetry service.
func NewTelemetryService(params ServiceParams) TelemetryService {
	return &telemetryService{ServiceParams: params}
}

func (s *telemetryService) RecordSecurityEvent(ctx context.Context, event *security.Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UTC().UnixMilli()
	}
	if event.Severity == "" {
		event.Severity = types.SeverityInfo
	}

	if err := s.SecurityEventRepo.Append(ctx, event); err != nil {
		s.Logger.Errorw("failed to record security event",
			"event_type", event.EventType,
			"user_id", event.UserID,
			"error", err)
	}
}

func (s *telemetryService) LogQuotaViolation(ctx context.Context, userID string, endpoint types.Endpoint, metadata map[string]interface{}) {
	s.RecordSecurityEvent(ctx, &security.Event{
		EventType: types.SecurityEventQuotaViolation,
		Severity:  types.SeverityWarning,
		UserID:    userID,
		Message:   fmt.Sprintf("Quota exceeded on %s", endpoint),
		Endpoint:  string(endpoint),
		Metadata:  metadata,
	})
}

func (s *telemetryService) LogRateLimitHit(ctx context.Context, userID string, endpoint types.Endpoint, metadata map[string]interface{}) {
	s.RecordSecurityEvent(ctx, &security.Event{
		EventType: types.SecurityEventRateLimitHit,
		Severity:  types.SeverityWarning,
		UserID:    userID,
		Message:   fmt.Sprintf("Rate limit hit on %s", endpoint),
		Endpoint:  string(endpoint),
		Metadata:  metadata,
	})
}

func (s *telemetryService) LogUnauthorizedAccess(ctx context.Context, userID string, message string, metadata map[string]interface{}) {
	s.RecordSecurityEvent(ctx, &security.Event{
		EventType: types.SecurityEventUnauthorizedAccess,
		Severity:  types.SeverityCritical,
		UserID:    userID,
		Message:   message,
		Metadata:  metadata,
	})
}

func (s *telemetryService) LogSuspiciousExport(ctx context.Context, userID string, metadata map[string]interface{}) {
	s.RecordSecurityEvent(ctx, &security.Event{
		EventType: types.SecurityEventSuspiciousExport,
		Severity:  types.SeverityWarning,
		UserID:    userID,
		Message:   "Suspicious bulk export activity",
		Endpoint:  string(types.EndpointExport),
		Metadata:  metadata,
	})
}

// countRecentEvents lists all events and filters client-side to the rolling
// hour and matching user/type. O(total events); acceptable at current
// scale, and the timestamp-prefixed keys support a range scan if not.
func (s *telemetryService) countRecentEvents(ctx context.Context, userID string, eventType types.SecurityEventType) (int, error) {
	cutoff := time.Now().UTC().Add(-types.ThresholdWindow)
	events, err := s.SecurityEventRepo.ListSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, event := range events {
		if event.UserID == userID && event.EventType == eventType {
			count++
		}
	}
	return count, nil
}

func (s *telemetryService) CheckQuotaViolationThreshold(ctx context.Context, userID string) {
	count, err := s.countRecentEvents(ctx, userID, types.SecurityEventQuotaViolation)
	if err != nil {
		s.Logger.Errorw("quota violation threshold check failed", "user_id", userID, "error", err)
		return
	}
	if count <= types.QuotaViolationThreshold {
		return
	}

	s.createNotification(ctx, &security.Notification{
		Title:    "Excessive quota violations",
		Message:  fmt.Sprintf("User %s exceeded quota limits %d times in the last hour", userID, count),
		Severity: types.SeverityCritical,
		UserID:   userID,
		Metadata: map[string]interface{}{
			"event_type": types.SecurityEventQuotaViolation,
			"count":      count,
			"threshold":  types.QuotaViolationThreshold,
		},
		QuickActions: standardQuickActions(userID),
	})
}

func (s *telemetryService) CheckRateLimitThreshold(ctx context.Context, userID string) {
	count, err := s.countRecentEvents(ctx, userID, types.SecurityEventRateLimitHit)
	if err != nil {
		s.Logger.Errorw("rate limit threshold check failed", "user_id", userID, "error", err)
		return
	}
	if count <= types.RateLimitHitThreshold {
		return
	}

	s.createNotification(ctx, &security.Notification{
		Title:    "Excessive rate limiting",
		Message:  fmt.Sprintf("User %s hit rate limits %d times in the last hour", userID, count),
		Severity: types.SeverityWarning,
		UserID:   userID,
		Metadata: map[string]interface{}{
			"event_type": types.SecurityEventRateLimitHit,
			"count":      count,
			"threshold":  types.RateLimitHitThreshold,
		},
		QuickActions: standardQuickActions(userID),
	})
}

func (s *telemetryService) CheckSuspiciousExportThreshold(ctx context.Context, userID string, planID types.PlanID) {
	// The export pattern check only targets free-tier accounts; paying
	// customers exporting heavily is expected behavior.
	if planID != types.PlanFree {
		return
	}

	count, err := s.countRecentEvents(ctx, userID, types.SecurityEventSuspiciousExport)
	if err != nil {
		s.Logger.Errorw("suspicious export threshold check failed", "user_id", userID, "error", err)
		return
	}
	if count <= types.SuspiciousExportThreshold {
		return
	}

	s.createNotification(ctx, &security.Notification{
		Title:    "Suspicious export activity",
		Message:  fmt.Sprintf("Free-tier user %s triggered %d suspicious exports in the last hour", userID, count),
		Severity: types.SeverityCritical,
		UserID:   userID,
		Metadata: map[string]interface{}{
			"event_type": types.SecurityEventSuspiciousExport,
			"count":      count,
			"threshold":  types.SuspiciousExportThreshold,
			"plan_id":    planID,
		},
		QuickActions: standardQuickActions(userID),
	})
}

// createNotification writes a notification best-effort. Threshold checks
// re-evaluate on every violation past the threshold, so within one rolling
// hour this may fire more than once; de-duplication is intentionally absent.
func (s *telemetryService) createNotification(ctx context.Context, n *security.Notification) {
	if n.Timestamp == 0 {
		n.Timestamp = time.Now().UTC().UnixMilli()
	}
	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		s.Logger.Errorw("failed to create admin notification",
			"title", n.Title,
			"user_id", n.UserID,
			"error", err)
	}
}

func standardQuickActions(userID string) []types.QuickAction {
	return []types.QuickAction{
		{Type: types.QuickActionViewUser, Label: "View user", URL: "/admin/users/" + userID},
		{Type: types.QuickActionApplyOverride, Label: "Apply quota override", URL: "/admin/overrides/" + userID},
		{Type: types.QuickActionSuspendUser, Label: "Suspend user", URL: "/admin/users/" + userID + "/suspend"},
		{Type: types.QuickActionViewEvents, Label: "View security events", URL: "/admin/security-events?user=" + userID},
	}
}
