package service

import (
	"context"
	"time"
)

// DispatcherService is the store-trigger shim: it polls for newly written
// pending access requests and runs the orchestrator on each. Concurrent
// dispatchers are safe because finalization is idempotent and every
// terminal write is version-checked.
type DispatcherService interface {
	// DispatchPending processes every currently pending request once.
	DispatchPending(ctx context.Context) error

	// Run polls on the configured interval until ctx ends.
	Run(ctx context.Context)
}

type dispatcherService struct {
	ServiceParams
	validation ValidationService
}

// NewDispatcherService creates the pending-request dispatcher.
func NewDispatcherService(params ServiceParams) DispatcherService {
	return &dispatcherService{
		ServiceParams: params,
		validation:    NewValidationService(params),
	}
}

func (s *dispatcherService) DispatchPending(ctx context.Context) error {
	pending, err := s.AccessRequestRepo.ListPending(ctx)
	if err != nil {
		return err
	}

	for _, req := range pending {
		if err := s.validation.ProcessAccessRequest(ctx, req.ID); err != nil {
			s.Logger.Errorw("failed to process access request",
				"request_id", req.ID, "error", err)
		}
	}
	return nil
}

func (s *dispatcherService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Config.Validation.DispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.DispatchPending(ctx); err != nil {
				s.Logger.Errorw("dispatch pass failed", "error", err)
			}
		}
	}
}
