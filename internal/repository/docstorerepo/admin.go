package docstorerepo

import (
	"context"

	"github.com/docuforge/docuforge/internal/config"
	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/admin"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
	gocache "github.com/patrickmn/go-cache"
)

type adminRepository struct {
	store docstore.Store
	log   *logger.Logger
	cache *gocache.Cache
}

// NewAdminRepository creates a platform-admin membership repository. The
// membership set changes rarely and is read on every request, so positive
// and negative answers are both cached.
func NewAdminRepository(store docstore.Store, cfg *config.Configuration, log *logger.Logger) admin.Repository {
	var c *gocache.Cache
	if cfg.Cache.Enabled {
		c = gocache.New(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)
	}
	return &adminRepository{store: store, log: log, cache: c}
}

func (r *adminRepository) IsPlatformAdmin(ctx context.Context, userID string) (bool, error) {
	if r.cache != nil {
		if cached, found := r.cache.Get(userID); found {
			return cached.(bool), nil
		}
	}

	isAdmin := false
	_, err := r.store.Get(ctx, types.CollectionPlatformAdmins, userID)
	switch {
	case err == nil:
		isAdmin = true
	case ierr.IsNotFound(err):
		isAdmin = false
	default:
		return false, err
	}

	if r.cache != nil {
		r.cache.SetDefault(userID, isAdmin)
	}
	return isAdmin, nil
}
