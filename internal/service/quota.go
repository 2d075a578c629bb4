package service

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/usage"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/types"
)

// RollbackFunc reverses a successful quota increment. It re-reads current
// state instead of applying an inverse delta, so it tolerates concurrent
// mutation or deletion of the counter by other actors. Best-effort.
type RollbackFunc func(ctx context.Context)

// QuotaService atomically validates and increments daily/monthly usage
// counters. A nil error means the increment was applied (or the dimension
// is unlimited); the returned rollback is nil when nothing was written.
type QuotaService interface {
	ValidateAndIncrementDownload(ctx context.Context, userID string) (RollbackFunc, error)
	ValidateAndIncrementBulkExport(ctx context.Context, userID string) (RollbackFunc, error)
}

type quotaService struct {
	ServiceParams
	subscriptionService SubscriptionService
}

// NewQuotaService creates a new quota ledger.
func NewQuotaService(params ServiceParams) QuotaService {
	return &quotaService{
		ServiceParams:       params,
		subscriptionService: NewSubscriptionService(params),
	}
}

func (s *quotaService) ValidateAndIncrementDownload(ctx context.Context, userID string) (RollbackFunc, error) {
	limits, err := s.subscriptionService.GetEffectivePlanLimits(ctx, userID)
	if err != nil {
		return nil, err
	}

	dayLimit := limits.Limits.DocumentsPerDay
	monthLimit := limits.Limits.DocumentsPerMonth

	// Fully unlimited: nothing to count, nothing to roll back.
	if dayLimit == types.Unlimited && monthLimit == types.Unlimited {
		return nil, nil
	}

	now := time.Now().UTC()

	// The monthly total is checked before any write so a monthly rejection
	// never leaves a partial daily increment behind.
	if monthLimit != types.Unlimited {
		monthTotal, err := s.UsageRepo.MonthTotal(ctx, userID, now)
		if err != nil {
			// Transient read failures on the aggregate fail open; the
			// daily counter check below still applies.
			s.Logger.Errorw("monthly usage read failed, skipping monthly check",
				"user_id", userID, "error", err)
		} else if monthTotal >= monthLimit {
			return nil, ierr.NewError("monthly document quota exceeded").
				WithHintf("You have used %d of %d documents this month", monthTotal, monthLimit).
				WithReportableDetails(map[string]interface{}{
					"limit":  monthLimit,
					"used":   monthTotal,
					"period": "month",
				}).
				Mark(ierr.ErrQuotaExceeded)
		}
	}

	// Daily counter: version-checked read-modify-write with bounded retry.
	// The counter is still incremented when only the monthly dimension is
	// limited, since the monthly total is the sum of the daily keys.
	err = s.UsageRepo.UpdateDay(ctx, userID, now, func(current usage.Counter) (usage.Counter, error) {
		if dayLimit != types.Unlimited && current.DocumentsProcessed >= dayLimit {
			return current, ierr.NewError("daily document quota exceeded").
				WithHintf("You have used %d of %d documents today", current.DocumentsProcessed, dayLimit).
				WithReportableDetails(map[string]interface{}{
					"limit":  dayLimit,
					"used":   current.DocumentsProcessed,
					"period": "day",
				}).
				Mark(ierr.ErrQuotaExceeded)
		}
		current.DocumentsProcessed++
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	day := now
	return func(rbCtx context.Context) {
		s.rollbackDownload(rbCtx, userID, day)
	}, nil
}

// rollbackDownload decrements the counter the increment touched, under its
// own bounded retry loop. A missing or already-zero counter is a no-op.
func (s *quotaService) rollbackDownload(ctx context.Context, userID string, day time.Time) {
	err := s.UsageRepo.UpdateDay(ctx, userID, day, func(current usage.Counter) (usage.Counter, error) {
		if current.DocumentsProcessed <= 0 {
			// Concurrently reset or deleted: nothing to reverse.
			return current, docstore.ErrNoWrite
		}
		current.DocumentsProcessed--
		return current, nil
	})
	if err != nil {
		s.Logger.Errorw("download quota rollback failed",
			"user_id", userID, "day", day.Format("2006-01-02"), "error", err)
	}
}

func (s *quotaService) ValidateAndIncrementBulkExport(ctx context.Context, userID string) (RollbackFunc, error) {
	limits, err := s.subscriptionService.GetEffectivePlanLimits(ctx, userID)
	if err != nil {
		return nil, err
	}

	exportLimit := limits.Limits.BulkExportsPerDay
	if exportLimit == types.Unlimited {
		return nil, nil
	}

	now := time.Now().UTC()

	err = s.ExportUsageRepo.UpdateDay(ctx, userID, now, func(current usage.ExportCounter) (usage.ExportCounter, error) {
		if current.BulkExportsCount >= exportLimit {
			return current, ierr.NewError("daily bulk export quota exceeded").
				WithHintf("You have used %d of %d bulk exports today", current.BulkExportsCount, exportLimit).
				WithReportableDetails(map[string]interface{}{
					"limit":  exportLimit,
					"used":   current.BulkExportsCount,
					"period": "day",
				}).
				Mark(ierr.ErrQuotaExceeded)
		}
		current.BulkExportsCount++
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	day := now
	return func(rbCtx context.Context) {
		s.rollbackBulkExport(rbCtx, userID, day)
	}, nil
}

func (s *quotaService) rollbackBulkExport(ctx context.Context, userID string, day time.Time) {
	err := s.ExportUsageRepo.UpdateDay(ctx, userID, day, func(current usage.ExportCounter) (usage.ExportCounter, error) {
		if current.BulkExportsCount <= 0 {
			// Concurrently reset or deleted: nothing to reverse.
			return current, docstore.ErrNoWrite
		}
		current.BulkExportsCount--
		return current, nil
	})
	if err != nil {
		s.Logger.Errorw("bulk export quota rollback failed",
			"user_id", userID, "day", day.Format("2006-01-02"), "error", err)
	}
}
