package docstore

import (
	"context"
	"testing"
	"time"

	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contendedStore wraps the in-memory store and fails every Set with a
// version conflict, simulating a key under permanent write contention.
type contendedStore struct {
	*InMemoryStore
	attempts int
}

func (s *contendedStore) Set(ctx context.Context, collection, key string, value interface{}, expectedVersion *int64) (int64, error) {
	s.attempts++
	return 0, ierr.NewError("document version conflict").
		WithHint("The document was modified concurrently").
		Mark(ierr.ErrVersionConflict)
}

func TestUpdateWithRetryExhaustionSurfacesServerError(t *testing.T) {
	store := &contendedStore{InMemoryStore: NewInMemoryStore()}
	policy := RetryPolicy{MaxAttempts: 3, BackoffBase: time.Millisecond}

	_, err := UpdateWithRetry(context.Background(), store, "usage", "u1_2026-08-29", policy,
		func(doc *Document) (interface{}, error) {
			return testDoc{Count: 1}, nil
		})
	require.Error(t, err)

	assert.Equal(t, 3, store.attempts)
	assert.True(t, ierr.IsInternal(err))

	// The per-attempt conflict mark must not leak into the caller-facing
	// classification once retries are spent.
	assert.False(t, ierr.IsVersionConflict(err))
	assert.Equal(t, "server_error", ierr.Code(err))
}
