package subscription

import (
	"time"

	"github.com/docuforge/docuforge/internal/types"
)

// Status mirrors the billing provider's subscription lifecycle states.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
	StatusPaused   Status = "paused"
	StatusTrialing Status = "trialing"
)

// GracePeriod is how long a past_due subscription stays active after the
// last payment attempt.
const GracePeriod = 24 * time.Hour

// Record is a subscription document written by the billing webhook
// collaborator. Read-only to the validation pipeline.
type Record struct {
	PlanID             types.PlanID `json:"plan_id"`
	Status             Status       `json:"status"`
	CurrentPeriodStart int64        `json:"current_period_start"` // epoch ms
	CurrentPeriodEnd   int64        `json:"current_period_end"`   // epoch ms
	CancelAtPeriodEnd  bool         `json:"cancel_at_period_end"`
	LastPaymentAttempt *int64       `json:"last_payment_attempt,omitempty"` // epoch ms
}

// StatusResult is the computed activity status for a user.
type StatusResult struct {
	IsActive          bool       `json:"is_active"`
	IsExpired         bool       `json:"is_expired"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	GracePeriodEndsAt *time.Time `json:"grace_period_ends_at,omitempty"`
}

// OverrideQuotas carries per-dimension overrides; nil fields keep the base
// value.
type OverrideQuotas struct {
	DocumentsPerDay    *int `json:"documents_per_day,omitempty"`
	DocumentsPerMonth  *int `json:"documents_per_month,omitempty"`
	BulkExportsPerDay  *int `json:"bulk_exports_per_day,omitempty"`
	MaxTemplates       *int `json:"max_templates,omitempty"`
	MaxFileSizeMB      *int `json:"max_file_size_mb,omitempty"`
	MaxBulkExportBatch *int `json:"max_bulk_export_batch,omitempty"`
}

// QuotaOverride is an admin-authored exception to a user's plan limits.
// Ignored once ExpiresAt passes.
type QuotaOverride struct {
	OverrideQuotas *OverrideQuotas `json:"override_quotas,omitempty"`
	Reason         string          `json:"reason"`
	ExpiresAt      *int64          `json:"expires_at,omitempty"` // epoch ms
	CreatedBy      string          `json:"created_by"`
}

// IsExpired reports whether the override has lapsed as of now.
func (o *QuotaOverride) IsExpired(now time.Time) bool {
	if o.ExpiresAt == nil {
		return false
	}
	return now.UnixMilli() >= *o.ExpiresAt
}

// Apply layers the override's non-nil fields onto base limits.
func (o *OverrideQuotas) Apply(base types.PlanLimits) types.PlanLimits {
	if o == nil {
		return base
	}
	if o.DocumentsPerDay != nil {
		base.DocumentsPerDay = *o.DocumentsPerDay
	}
	if o.DocumentsPerMonth != nil {
		base.DocumentsPerMonth = *o.DocumentsPerMonth
	}
	if o.BulkExportsPerDay != nil {
		base.BulkExportsPerDay = *o.BulkExportsPerDay
	}
	if o.MaxTemplates != nil {
		base.MaxTemplates = *o.MaxTemplates
	}
	if o.MaxFileSizeMB != nil {
		base.MaxFileSizeMB = *o.MaxFileSizeMB
	}
	if o.MaxBulkExportBatch != nil {
		base.MaxBulkExportBatch = *o.MaxBulkExportBatch
	}
	return base
}
