package subscription

import "context"

// Repository provides read access to subscription records. The pipeline
// never writes to the subscriptions collection.
type Repository interface {
	// Get returns the subscription record for a user, or nil when the
	// user has no subscription (free tier).
	Get(ctx context.Context, userID string) (*Record, error)
}

// OverrideRepository provides read access to admin quota overrides.
type OverrideRepository interface {
	// Get returns the quota override for a user, or nil when none exists.
	Get(ctx context.Context, userID string) (*QuotaOverride, error)
}
