package docstorerepo

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/config"
	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/ratelimit"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
)

type rateLimitRepository struct {
	store  docstore.Store
	log    *logger.Logger
	policy docstore.RetryPolicy
}

// NewRateLimitRepository creates a docstore-backed sliding-window
// repository. Window writes share the same bounded CAS loop as the usage
// counters.
func NewRateLimitRepository(store docstore.Store, cfg *config.Configuration, log *logger.Logger) ratelimit.Repository {
	return &rateLimitRepository{
		store: store,
		log:   log,
		policy: docstore.RetryPolicy{
			MaxAttempts: cfg.Validation.MaxCASAttempts,
			BackoffBase: cfg.Validation.CASBackoffBase,
		},
	}
}

func (r *rateLimitRepository) Get(ctx context.Context, userID string, endpoint types.Endpoint) (*ratelimit.Window, error) {
	key := ratelimit.Key{UserID: userID, Endpoint: endpoint}.Encode()
	doc, err := r.store.Get(ctx, types.CollectionRateLimits, key)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &ratelimit.Window{}, nil
		}
		return nil, err
	}
	return docstore.Decode[ratelimit.Window](doc)
}

func (r *rateLimitRepository) Update(ctx context.Context, userID string, endpoint types.Endpoint, mutate func(current ratelimit.Window) (ratelimit.Window, error)) error {
	key := ratelimit.Key{UserID: userID, Endpoint: endpoint}.Encode()
	_, err := docstore.UpdateWithRetry(ctx, r.store, types.CollectionRateLimits, key, r.policy,
		func(doc *docstore.Document) (interface{}, error) {
			var current ratelimit.Window
			if doc != nil {
				decoded, err := docstore.Decode[ratelimit.Window](doc)
				if err != nil {
					return nil, err
				}
				current = *decoded
			}

			next, err := mutate(current)
			if err != nil {
				return nil, err
			}
			next.LastUpdated = time.Now().UTC()
			return &next, nil
		})
	return err
}
