package docstorerepo

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/config"
	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/usage"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
)

type usageRepository struct {
	store  docstore.Store
	log    *logger.Logger
	policy docstore.RetryPolicy
}

// NewUsageRepository creates a docstore-backed daily usage counter
// repository.
func NewUsageRepository(store docstore.Store, cfg *config.Configuration, log *logger.Logger) usage.Repository {
	return &usageRepository{
		store: store,
		log:   log,
		policy: docstore.RetryPolicy{
			MaxAttempts: cfg.Validation.MaxCASAttempts,
			BackoffBase: cfg.Validation.CASBackoffBase,
		},
	}
}

func (r *usageRepository) GetDay(ctx context.Context, userID string, day time.Time) (*usage.Counter, error) {
	key := usage.NewDayKey(userID, day).Encode()
	doc, err := r.store.Get(ctx, types.CollectionUsage, key)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &usage.Counter{}, nil
		}
		return nil, err
	}
	return docstore.Decode[usage.Counter](doc)
}

func (r *usageRepository) MonthTotal(ctx context.Context, userID string, t time.Time) (int, error) {
	docs, err := r.store.List(ctx, types.CollectionUsage, docstore.ListOptions{
		Prefix: usage.MonthPrefix(userID, t),
	})
	if err != nil {
		return 0, err
	}

	month := t.UTC().Format("2006-01")
	total := 0
	for _, doc := range docs {
		// The prefix scan is only a coarse filter: a user id that itself
		// ends in "_YYYY-MM" would match another user's prefix. Parse the
		// key and keep exact owner and month matches only.
		key, err := usage.ParseDayKey(doc.Key)
		if err != nil {
			r.log.Warnw("skipping malformed usage key", "key", doc.Key, "error", err)
			continue
		}
		if key.UserID != userID || key.Day.Format("2006-01") != month {
			continue
		}

		counter, err := docstore.Decode[usage.Counter](doc)
		if err != nil {
			r.log.Warnw("skipping malformed usage counter", "key", doc.Key, "error", err)
			continue
		}
		total += counter.DocumentsProcessed
	}
	return total, nil
}

func (r *usageRepository) UpdateDay(ctx context.Context, userID string, day time.Time, mutate func(current usage.Counter) (usage.Counter, error)) error {
	key := usage.NewDayKey(userID, day).Encode()
	_, err := docstore.UpdateWithRetry(ctx, r.store, types.CollectionUsage, key, r.policy,
		func(doc *docstore.Document) (interface{}, error) {
			var current usage.Counter
			if doc != nil {
				decoded, err := docstore.Decode[usage.Counter](doc)
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

type exportUsageRepository struct {
	store  docstore.Store
	log    *logger.Logger
	policy docstore.RetryPolicy
}

// NewExportUsageRepository creates a docstore-backed bulk-export counter
// repository.
func NewExportUsageRepository(store docstore.Store, cfg *config.Configuration, log *logger.Logger) usage.ExportRepository {
	return &exportUsageRepository{
		store: store,
		log:   log,
		policy: docstore.RetryPolicy{
			MaxAttempts: cfg.Validation.MaxCASAttempts,
			BackoffBase: cfg.Validation.CASBackoffBase,
		},
	}
}

func (r *exportUsageRepository) GetDay(ctx context.Context, userID string, day time.Time) (*usage.ExportCounter, error) {
	key := usage.NewDayKey(userID, day).Encode()
	doc, err := r.store.Get(ctx, types.CollectionExportUsage, key)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &usage.ExportCounter{}, nil
		}
		return nil, err
	}
	return docstore.Decode[usage.ExportCounter](doc)
}

func (r *exportUsageRepository) UpdateDay(ctx context.Context, userID string, day time.Time, mutate func(current usage.ExportCounter) (usage.ExportCounter, error)) error {
	key := usage.NewDayKey(userID, day).Encode()
	_, err := docstore.UpdateWithRetry(ctx, r.store, types.CollectionExportUsage, key, r.policy,
		func(doc *docstore.Document) (interface{}, error) {
			var current usage.ExportCounter
			if doc != nil {
				decoded, err := docstore.Decode[usage.ExportCounter](doc)
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
