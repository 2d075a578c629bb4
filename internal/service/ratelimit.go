package service

import (
	"context"
	"math"
	"time"

	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/ratelimit"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/samber/lo"
)

// RateLimiterService enforces per-(user, endpoint) sliding-window limits
// with a short burst allowance.
type RateLimiterService interface {
	CheckRateLimit(ctx context.Context, userID string, endpoint types.Endpoint, planID types.PlanID) (*ratelimit.Result, error)
}

type rateLimiterService struct {
	ServiceParams
}

// NewRateLimiterService creates a new sliding-window rate limiter.
func NewRateLimiterService(params ServiceParams) RateLimiterService {
	return &rateLimiterService{ServiceParams: params}
}

func (s *rateLimiterService) CheckRateLimit(ctx context.Context, userID string, endpoint types.Endpoint, planID types.PlanID) (*ratelimit.Result, error) {
	// Platform admins bypass rate limiting entirely.
	isAdmin, err := s.AdminRepo.IsPlatformAdmin(ctx, userID)
	if err == nil && isAdmin {
		return &ratelimit.Result{
			Allowed:   true,
			Remaining: math.MaxInt32,
			ResetAt:   time.Now().UTC(),
		}, nil
	}

	cfg := types.GetRateLimitConfig(endpoint)
	now := time.Now().UTC()

	var result *ratelimit.Result

	updateErr := s.RateLimitRepo.Update(ctx, userID, endpoint, func(current ratelimit.Window) (ratelimit.Window, error) {
		// The decision is re-evaluated on every CAS attempt so a retried
		// write never counts against a stale window.
		pruned := current.Prune(now, cfg.WindowSize)
		count := len(pruned)

		allow := count < cfg.MaxRequests
		if !allow {
			// Burst exception: a handful of rapid-fire requests within
			// the last second may pass even at the window cap.
			recentCount := ratelimit.CountSince(pruned, now.Add(-types.BurstWindow))
			allow = recentCount < cfg.BurstAllowance
		}

		if !allow {
			oldest := pruned[0]
			retryAfter := int(math.Ceil(float64(oldest+cfg.WindowSize.Milliseconds()-now.UnixMilli()) / 1000))
			if retryAfter < 1 {
				retryAfter = 1
			}
			result = &ratelimit.Result{
				Allowed:           false,
				Remaining:         0,
				ResetAt:           time.UnixMilli(oldest + cfg.WindowSize.Milliseconds()).UTC(),
				RetryAfterSeconds: lo.ToPtr(retryAfter),
			}
			// Rejections do not mutate the window.
			return current, docstore.ErrNoWrite
		}

		pruned = append(pruned, now.UnixMilli())
		resetAt := time.UnixMilli(pruned[0] + cfg.WindowSize.Milliseconds()).UTC()
		remaining := cfg.MaxRequests - len(pruned)
		if remaining < 0 {
			remaining = 0
		}
		result = &ratelimit.Result{
			Allowed:   true,
			Remaining: remaining,
			ResetAt:   resetAt,
		}
		return ratelimit.Window{Timestamps: pruned}, nil
	})

	if updateErr != nil {
		// Rate limiting is a guard rail, not a correctness-critical
		// ledger: exhausted retries or store failures fail open.
		s.Logger.Errorw("rate limit persistence failed, allowing request",
			"user_id", userID,
			"endpoint", endpoint,
			"plan_id", planID,
			"error", updateErr)
		return &ratelimit.Result{
			Allowed:   true,
			Remaining: 0,
			ResetAt:   now.Add(cfg.WindowSize),
		}, nil
	}

	return result, nil
}
