package admin

import "context"

// Repository answers platform-admin membership checks. Implementations are
// expected to cache lookups since this sits on the hot path of every
// request.
type Repository interface {
	IsPlatformAdmin(ctx context.Context, userID string) (bool, error)
}
