package usage

import (
	"context"
	"time"
)

// Repository persists daily download counters.
type Repository interface {
	// GetDay returns the counter for a user/day, or a zero counter when
	// the key does not exist yet.
	GetDay(ctx context.Context, userID string, day time.Time) (*Counter, error)

	// MonthTotal sums the daily counters of the month containing t.
	MonthTotal(ctx context.Context, userID string, t time.Time) (int, error)

	// UpdateDay applies mutate to the counter under a bounded
	// version-checked retry loop. The mutate function sees the current
	// counter (zero-valued when absent) and returns the counter to write.
	UpdateDay(ctx context.Context, userID string, day time.Time, mutate func(current Counter) (Counter, error)) error
}

// ExportRepository persists daily bulk-export counters.
type ExportRepository interface {
	GetDay(ctx context.Context, userID string, day time.Time) (*ExportCounter, error)
	UpdateDay(ctx context.Context, userID string, day time.Time, mutate func(current ExportCounter) (ExportCounter, error)) error
}
