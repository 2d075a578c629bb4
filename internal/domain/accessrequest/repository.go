package accessrequest

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/types"
)

// Repository defines persistence operations for access requests.
type Repository interface {
	// Create writes a new pending request; fails if the key already exists.
	Create(ctx context.Context, req *AccessRequest) error

	// Get retrieves a request with its current store version.
	Get(ctx context.Context, id string) (*AccessRequest, error)

	// Finalize writes the terminal state under the version read earlier.
	// A version conflict means the request was finalized or deleted by
	// someone else; callers treat that as "stop, no compensation needed".
	Finalize(ctx context.Context, req *AccessRequest, status types.RequestStatus, approvedIDs []string, reqErr *RequestError) error

	// ListPendingOlderThan returns pending requests created before the
	// cutoff, for the orphan sweep.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*AccessRequest, error)

	// ListPending returns all pending requests, for the dispatcher.
	ListPending(ctx context.Context) ([]*AccessRequest, error)

	// Delete removes a request under its current version.
	Delete(ctx context.Context, req *AccessRequest) error
}
