package types

import "time"

// SecurityEventType classifies security telemetry events.
type SecurityEventType string

const (
	SecurityEventQuotaViolation     SecurityEventType = "quota_violation"
	SecurityEventRateLimitHit       SecurityEventType = "rate_limit_hit"
	SecurityEventUnauthorizedAccess SecurityEventType = "unauthorized_access"
	SecurityEventSuspiciousExport   SecurityEventType = "suspicious_export"
)

// Severity of a security event or admin notification.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Threshold configuration for abuse detection over a rolling hour.
// Crossing re-fires on every event past the threshold; de-duplication of
// notifications is intentionally not done here.
const (
	ThresholdWindow = time.Hour

	QuotaViolationThreshold   = 100
	RateLimitHitThreshold     = 50
	SuspiciousExportThreshold = 10
)

// QuickActionType enumerates the actions an admin can take from a
// notification.
type QuickActionType string

const (
	QuickActionViewUser      QuickActionType = "view_user"
	QuickActionApplyOverride QuickActionType = "apply_override"
	QuickActionSuspendUser   QuickActionType = "suspend_user"
	QuickActionViewEvents    QuickActionType = "view_events"
)

// QuickAction is a single actionable descriptor on an admin notification.
type QuickAction struct {
	Type  QuickActionType `json:"type"`
	Label string          `json:"label"`
	URL   string          `json:"url,omitempty"`
}
