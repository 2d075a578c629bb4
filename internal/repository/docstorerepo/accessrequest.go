package docstorerepo

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/accessrequest"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/samber/lo"
)

type accessRequestRepository struct {
	store docstore.Store
	log   *logger.Logger
}

// NewAccessRequestRepository creates a docstore-backed access request
// repository.
func NewAccessRequestRepository(store docstore.Store, log *logger.Logger) accessrequest.Repository {
	return &accessRequestRepository{store: store, log: log}
}

func (r *accessRequestRepository) Create(ctx context.Context, req *accessrequest.AccessRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	req.Status = types.RequestStatusPending
	req.CreatedAt = time.Now().UTC()
	req.UpdatedAt = req.CreatedAt

	expected := docstore.VersionAbsent
	version, err := r.store.Set(ctx, types.CollectionAccessRequests, req.ID, req, &expected)
	if err != nil {
		if ierr.IsVersionConflict(err) {
			return ierr.WithError(err).
				WithHint("An access request with this id already exists").
				WithReportableDetails(map[string]interface{}{"id": req.ID}).
				Mark(ierr.ErrAlreadyExists)
		}
		return err
	}
	req.Version = version
	return nil
}

func (r *accessRequestRepository) Get(ctx context.Context, id string) (*accessrequest.AccessRequest, error) {
	doc, err := r.store.Get(ctx, types.CollectionAccessRequests, id)
	if err != nil {
		return nil, err
	}
	req, err := docstore.Decode[accessrequest.AccessRequest](doc)
	if err != nil {
		return nil, err
	}
	req.Version = doc.Version
	return req, nil
}

func (r *accessRequestRepository) Finalize(ctx context.Context, req *accessrequest.AccessRequest, status types.RequestStatus, approvedIDs []string, reqErr *accessrequest.RequestError) error {
	final := *req
	final.Status = status
	final.ApprovedResourceIDs = approvedIDs
	final.Error = reqErr
	final.UpdatedAt = time.Now().UTC()

	version, err := r.store.Set(ctx, types.CollectionAccessRequests, req.ID, &final, &req.Version)
	if err != nil {
		return err
	}
	req.Version = version
	req.Status = status
	req.ApprovedResourceIDs = approvedIDs
	req.Error = reqErr
	req.UpdatedAt = final.UpdatedAt
	return nil
}

func (r *accessRequestRepository) ListPending(ctx context.Context) ([]*accessrequest.AccessRequest, error) {
	return r.listPending(ctx, time.Time{})
}

func (r *accessRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*accessrequest.AccessRequest, error) {
	return r.listPending(ctx, cutoff)
}

func (r *accessRequestRepository) listPending(ctx context.Context, cutoff time.Time) ([]*accessrequest.AccessRequest, error) {
	docs, err := r.store.List(ctx, types.CollectionAccessRequests, docstore.ListOptions{})
	if err != nil {
		return nil, err
	}

	requests := make([]*accessrequest.AccessRequest, 0, len(docs))
	for _, doc := range docs {
		req, err := docstore.Decode[accessrequest.AccessRequest](doc)
		if err != nil {
			r.log.Warnw("skipping malformed access request", "key", doc.Key, "error", err)
			continue
		}
		if req.Status != types.RequestStatusPending {
			continue
		}
		if !cutoff.IsZero() && !req.CreatedAt.Before(cutoff) {
			continue
		}
		req.Version = doc.Version
		requests = append(requests, req)
	}
	return requests, nil
}

func (r *accessRequestRepository) Delete(ctx context.Context, req *accessrequest.AccessRequest) error {
	return r.store.Delete(ctx, types.CollectionAccessRequests, req.ID, lo.ToPtr(req.Version))
}
