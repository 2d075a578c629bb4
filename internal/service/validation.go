package service

import (
	"context"

	"github.com/docuforge/docuforge/internal/api/dto"
	"github.com/docuforge/docuforge/internal/domain/accessrequest"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/types"
)

// ValidationService is the top-level orchestrator: it drives a pending
// access request through subscription, rate-limit, and quota gates in a
// fixed order, and backs the two synchronous validation endpoints with the
// exact same gate logic so neither entry point can bypass the other.
type ValidationService interface {
	// ProcessAccessRequest runs the state machine for one request.
	// Invoked again on an already-finalized request it is a no-op.
	ProcessAccessRequest(ctx context.Context, requestID string) error

	ValidateDownload(ctx context.Context, req *dto.ValidateDownloadRequest) (*dto.ValidateDownloadResponse, error)
	ValidateBulkExport(ctx context.Context, req *dto.ValidateBulkExportRequest) (*dto.ValidateBulkExportResponse, error)

	// CreateAccessRequest enqueues a pending request for the
	// store-triggered path.
	CreateAccessRequest(ctx context.Context, req *dto.CreateAccessRequestRequest) (*accessrequest.AccessRequest, error)
}

type validationService struct {
	ServiceParams
	subscriptionService SubscriptionService
	rateLimiter         RateLimiterService
	quota               QuotaService
	telemetry           TelemetryService
}

// NewValidationService creates the request validation orchestrator.
func NewValidationService(params ServiceParams) ValidationService {
	return &validationService{
		ServiceParams:       params,
		subscriptionService: NewSubscriptionService(params),
		rateLimiter:         NewRateLimiterService(params),
		quota:               NewQuotaService(params),
		telemetry:           NewTelemetryService(params),
	}
}

// runGates applies the gate sequence for one user/request type:
// admin bypass → subscription → rate limit → quota. On success the
// returned rollback (possibly nil) reverses the applied quota increment.
// Rejections come back as marked errors; telemetry for rejections is
// emitted here so both entry points behave identically.
func (s *validationService) runGates(ctx context.Context, userID string, reqType types.RequestType) (RollbackFunc, error) {
	// Step 1: platform admins skip every gate.
	isAdmin, err := s.AdminRepo.IsPlatformAdmin(ctx, userID)
	if err != nil {
		s.Logger.Errorw("platform admin lookup failed", "user_id", userID, "error", err)
	} else if isAdmin {
		return nil, nil
	}

	// Step 2: subscription status. Read errors fail closed.
	status, err := s.subscriptionService.GetSubscriptionStatus(ctx, userID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to verify subscription status").
			Mark(ierr.ErrInternal)
	}
	if !status.IsActive {
		s.telemetry.LogUnauthorizedAccess(ctx, userID,
			"Access attempt with inactive subscription",
			map[string]interface{}{"request_type": reqType})
		return nil, ierr.NewError("subscription is not active").
			WithHint("Your subscription has expired or is paused").
			Mark(ierr.ErrSubscriptionExpired)
	}

	limits, err := s.subscriptionService.GetEffectivePlanLimits(ctx, userID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to resolve plan limits").
			Mark(ierr.ErrInternal)
	}

	// Step 3: sliding-window rate limit.
	endpoint := reqType.Endpoint()
	rl, err := s.rateLimiter.CheckRateLimit(ctx, userID, endpoint, limits.PlanID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to check rate limit").
			Mark(ierr.ErrInternal)
	}
	if !rl.Allowed {
		retryAfter := 1
		if rl.RetryAfterSeconds != nil {
			retryAfter = *rl.RetryAfterSeconds
		}
		s.telemetry.LogRateLimitHit(ctx, userID, endpoint, map[string]interface{}{
			"retry_after_seconds": retryAfter,
			"plan_id":             limits.PlanID,
		})
		s.telemetry.CheckRateLimitThreshold(ctx, userID)
		return nil, ierr.NewError("rate limit exceeded").
			WithHintf("Too many %s requests, retry in %d seconds", endpoint, retryAfter).
			WithReportableDetails(map[string]interface{}{
				"retry_after_seconds": retryAfter,
			}).
			Mark(ierr.ErrRateLimit)
	}

	// Step 4: quota increment.
	var rollback RollbackFunc
	switch reqType {
	case types.RequestTypeExport:
		rollback, err = s.quota.ValidateAndIncrementBulkExport(ctx, userID)
	default:
		rollback, err = s.quota.ValidateAndIncrementDownload(ctx, userID)
	}
	if err != nil {
		if ierr.IsQuotaExceeded(err) {
			s.telemetry.LogQuotaViolation(ctx, userID, endpoint, ierr.Details(err))
			s.telemetry.CheckQuotaViolationThreshold(ctx, userID)
		}
		return nil, err
	}

	// Export activity by free-tier accounts feeds the abuse detector.
	if reqType == types.RequestTypeExport && limits.PlanID == types.PlanFree {
		s.telemetry.LogSuspiciousExport(ctx, userID, map[string]interface{}{
			"plan_id": limits.PlanID,
		})
		s.telemetry.CheckSuspiciousExportThreshold(ctx, userID, limits.PlanID)
	}

	return rollback, nil
}

func (s *validationService) ProcessAccessRequest(ctx context.Context, requestID string) error {
	req, err := s.AccessRequestRepo.Get(ctx, requestID)
	if err != nil {
		if ierr.IsNotFound(err) {
			// Deleted by the orphan sweep; nothing to do.
			return nil
		}
		return err
	}

	// Idempotent finalize: a finalized request is a no-op.
	if req.IsFinalized() {
		return nil
	}

	rollback, gateErr := s.runGates(ctx, req.RequesterID, req.RequestType)
	if gateErr != nil {
		// Expected validation outcomes become a rejected terminal state,
		// not a propagated error.
		s.finalizeRejected(ctx, req, gateErr)
		return nil
	}

	if err := s.AccessRequestRepo.Finalize(ctx, req, types.RequestStatusApproved, req.TargetResourceIDs, nil); err != nil {
		if ierr.IsVersionConflict(err) {
			// Lost the terminal-write race (finalized elsewhere or swept).
			// Counters already reflect the true outcome; just stop.
			return nil
		}

		// Unexpected failure after the quota increment succeeded: reverse
		// the increment and record the failure.
		if rollback != nil {
			rollback(ctx)
		}
		s.telemetry.LogUnauthorizedAccess(ctx, req.RequesterID,
			"Internal failure while finalizing access request",
			map[string]interface{}{"request_id": req.ID, "error": err.Error()})
		s.finalizeRejected(ctx, req, ierr.WithError(err).
			WithHint("Internal error while finalizing the request").
			Mark(ierr.ErrInternal))
		return err
	}

	s.Logger.Infow("access request approved",
		"request_id", req.ID,
		"requester_id", req.RequesterID,
		"request_type", req.RequestType,
		"resources", len(req.TargetResourceIDs))
	return nil
}

// finalizeRejected writes the rejected terminal state best-effort. A
// version conflict means someone else finalized or deleted the request; no
// compensation is needed.
func (s *validationService) finalizeRejected(ctx context.Context, req *accessrequest.AccessRequest, cause error) {
	reqErr := requestErrorFromError(cause)
	if err := s.AccessRequestRepo.Finalize(ctx, req, types.RequestStatusRejected, nil, reqErr); err != nil {
		if !ierr.IsVersionConflict(err) {
			s.Logger.Errorw("failed to write rejected verdict",
				"request_id", req.ID, "error", err)
		}
		return
	}
	s.Logger.Infow("access request rejected",
		"request_id", req.ID,
		"requester_id", req.RequesterID,
		"code", reqErr.Code)
}

func (s *validationService) CreateAccessRequest(ctx context.Context, req *dto.CreateAccessRequestRequest) (*accessrequest.AccessRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	request := &accessrequest.AccessRequest{
		ID:                types.GenerateUUIDWithPrefix(types.UUIDPrefixAccessRequest),
		RequesterID:       req.RequesterID,
		RequestType:       types.RequestType(req.RequestType),
		TargetResourceIDs: req.TargetResourceIDs,
	}
	if err := s.AccessRequestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *validationService) ValidateDownload(ctx context.Context, req *dto.ValidateDownloadRequest) (*dto.ValidateDownloadResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Resolve the template before any gate so a missing resource never
	// burns quota or rate-limit budget.
	tmpl, err := s.TemplateRepo.Get(ctx, req.TemplateID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("template not found").
				WithHintf("Template %s does not exist", req.TemplateID).
				Mark(ierr.ErrTemplateNotFound)
		}
		return nil, err
	}

	if _, err := s.runGates(ctx, req.UserID, types.RequestTypeDownload); err != nil {
		return nil, err
	}

	return &dto.ValidateDownloadResponse{
		Success:     true,
		ResourceURL: tmpl.ResourceURL,
	}, nil
}

func (s *validationService) ValidateBulkExport(ctx context.Context, req *dto.ValidateBulkExportRequest) (*dto.ValidateBulkExportResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Tier cap on batch size applies before any quota or rate-limit work.
	limits, err := s.subscriptionService.GetEffectivePlanLimits(ctx, req.UserID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to resolve plan limits").
			Mark(ierr.ErrInternal)
	}
	if batchCap := limits.Limits.MaxBulkExportBatch; batchCap != types.Unlimited && len(req.TemplateIDs) > batchCap {
		return nil, ierr.NewError("bulk export batch exceeds tier limit").
			WithHintf("Your plan allows exporting up to %d templates at once", batchCap).
			WithReportableDetails(map[string]interface{}{
				"limit":     batchCap,
				"requested": len(req.TemplateIDs),
			}).
			Mark(ierr.ErrTierLimit)
	}

	if _, err := s.runGates(ctx, req.UserID, types.RequestTypeExport); err != nil {
		return nil, err
	}

	resp := &dto.ValidateBulkExportResponse{Success: true}
	for _, id := range req.TemplateIDs {
		if _, err := s.TemplateRepo.Get(ctx, id); err != nil {
			reason := "not_found"
			if !ierr.IsNotFound(err) {
				reason = "lookup_failed"
			}
			resp.Rejected = append(resp.Rejected, dto.BulkExportRejection{
				TemplateID: id,
				Reason:     reason,
			})
			continue
		}
		resp.ApprovedResourceIDs = append(resp.ApprovedResourceIDs, id)
	}
	return resp, nil
}

// requestErrorFromError converts a marked error into the structured error
// object written into a rejected access request.
func requestErrorFromError(err error) *accessrequest.RequestError {
	reqErr := &accessrequest.RequestError{
		Code:    types.ErrorCode(ierr.Code(err)),
		Message: err.Error(),
	}
	if hint := ierr.Hint(err); hint != "" {
		reqErr.Message = hint
	}

	details := ierr.Details(err)
	reqErr.Limit = intDetail(details, "limit")
	reqErr.Used = intDetail(details, "used")
	reqErr.Requested = intDetail(details, "requested")
	reqErr.RetryAfterSeconds = intDetail(details, "retry_after_seconds")
	return reqErr
}

func intDetail(details map[string]interface{}, key string) *int {
	if details == nil {
		return nil
	}
	switch v := details[key].(type) {
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	}
	return nil
}
