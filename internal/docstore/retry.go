package docstore

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	ierr "github.com/docuforge/docuforge/internal/errors"
)

// ErrNoWrite is returned by a MutateFunc to finish the update loop without
// writing anything. UpdateWithRetry treats it as success.
var ErrNoWrite = errors.New("docstore: no write")

// MutateFunc computes the next value of a document. It receives the current
// document, or nil when the key does not exist yet, and returns the value to
// write. Returning an error aborts the loop; returning ErrNoWrite finishes
// it without a write.
type MutateFunc func(doc *Document) (interface{}, error)

// RetryPolicy bounds a compare-and-swap loop.
type RetryPolicy struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// DefaultRetryPolicy matches the counter-update contract: up to 10 attempts
// with linear 50ms backoff between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 10, BackoffBase: 50 * time.Millisecond}
}

// linearBackOff waits base*attempt between retries.
type linearBackOff struct {
	base    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.base * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() { b.attempt = 0 }

// UpdateWithRetry runs a read-mutate-write loop against a single key,
// retrying on version conflicts up to the policy's attempt bound. Every
// write is version-checked against the document read in the same attempt,
// so concurrent updates never lose increments. Non-conflict errors from the
// store or the mutate function abort immediately.
func UpdateWithRetry(ctx context.Context, s Store, collection, key string, policy RetryPolicy, mutate MutateFunc) (int64, error) {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}

	var version int64

	operation := func() error {
		doc, err := s.Get(ctx, collection, key)
		if err != nil && !ierr.IsNotFound(err) {
			return backoff.Permanent(err)
		}

		value, err := mutate(doc)
		if err != nil {
			if errors.Is(err, ErrNoWrite) {
				if doc != nil {
					version = doc.Version
				}
				return nil
			}
			return backoff.Permanent(err)
		}

		expected := VersionAbsent
		if doc != nil {
			expected = doc.Version
		}

		version, err = s.Set(ctx, collection, key, value, &expected)
		if err != nil {
			if ierr.IsVersionConflict(err) {
				return err // retryable
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{base: policy.BackoffBase}, uint64(policy.MaxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(operation, b); err != nil {
		if ierr.IsVersionConflict(err) {
			// A fresh error, not a wrap: the conflict mark must not leak
			// into the surfaced code once retries are spent.
			return 0, ierr.NewError("concurrent document update retries exhausted").
				WithHint("Exhausted retries on concurrent document updates").
				WithReportableDetails(map[string]interface{}{
					"collection":   collection,
					"key":          key,
					"max_attempts": policy.MaxAttempts,
				}).
				Mark(ierr.ErrInternal)
		}
		return 0, err
	}
	return version, nil
}
