package ratelimit

import (
	"context"

	"github.com/docuforge/docuforge/internal/types"
)

// Repository persists sliding-window state.
type Repository interface {
	// Get returns the window for a user/endpoint pair, or an empty window
	// when none exists yet.
	Get(ctx context.Context, userID string, endpoint types.Endpoint) (*Window, error)

	// Update applies mutate under a bounded version-checked retry loop.
	// The mutate function sees the current window (empty when absent) and
	// returns the window to persist.
	Update(ctx context.Context, userID string, endpoint types.Endpoint, mutate func(current Window) (Window, error)) error
}
