package docstorerepo

import (
	"context"

	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/subscription"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
)

type subscriptionRepository struct {
	store docstore.Store
	log   *logger.Logger
}

// NewSubscriptionRepository creates a read-only view over the
// subscriptions collection written by the billing collaborator.
func NewSubscriptionRepository(store docstore.Store, log *logger.Logger) subscription.Repository {
	return &subscriptionRepository{store: store, log: log}
}

func (r *subscriptionRepository) Get(ctx context.Context, userID string) (*subscription.Record, error) {
	doc, err := r.store.Get(ctx, types.CollectionSubscriptions, userID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil // no record: free tier
		}
		return nil, err
	}
	return docstore.Decode[subscription.Record](doc)
}

type overrideRepository struct {
	store docstore.Store
	log   *logger.Logger
}

// NewOverrideRepository creates a read-only view over admin quota
// overrides.
func NewOverrideRepository(store docstore.Store, log *logger.Logger) subscription.OverrideRepository {
	return &overrideRepository{store: store, log: log}
}

func (r *overrideRepository) Get(ctx context.Context, userID string) (*subscription.QuotaOverride, error) {
	doc, err := r.store.Get(ctx, types.CollectionOverrides, userID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return docstore.Decode[subscription.QuotaOverride](doc)
}
