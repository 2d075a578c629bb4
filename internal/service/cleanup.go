package service

import (
	"context"
	"time"

	ierr "github.com/docuforge/docuforge/internal/errors"
)

// CleanupService deletes access requests left pending beyond the staleness
// window. Requests are never cancelled mid-flight; the sweep only removes
// orphans the orchestrator never finalized.
type CleanupService interface {
	// SweepOrphans runs one pass and returns how many requests it removed.
	SweepOrphans(ctx context.Context) (int, error)

	// Run loops SweepOrphans on the configured interval until ctx ends.
	Run(ctx context.Context)
}

type cleanupService struct {
	ServiceParams
}

// NewCleanupService creates the orphan sweep.
func NewCleanupService(params ServiceParams) CleanupService {
	return &cleanupService{ServiceParams: params}
}

func (s *cleanupService) SweepOrphans(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.Config.Validation.PendingRequestTTL)
	stale, err := s.AccessRequestRepo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, req := range stale {
		if err := s.AccessRequestRepo.Delete(ctx, req); err != nil {
			// A conflict means the orchestrator finalized it after our
			// list; leave it alone.
			if !ierr.IsVersionConflict(err) && !ierr.IsNotFound(err) {
				s.Logger.Errorw("failed to sweep stale request",
					"request_id", req.ID, "error", err)
			}
			continue
		}
		removed++
	}

	if removed > 0 {
		s.Logger.Infow("swept stale pending requests", "count", removed)
	}
	return removed, nil
}

func (s *cleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Config.Validation.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOrphans(ctx); err != nil {
				s.Logger.Errorw("orphan sweep failed", "error", err)
			}
		}
	}
}
