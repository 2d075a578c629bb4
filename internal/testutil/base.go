package testutil

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/config"
	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/repository/docstorerepo"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/stretchr/testify/suite"
)

// BaseServiceTestSuite provides a fresh in-memory document store and
// repositories for every test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *docstore.InMemoryStore
	stores *docstorerepo.Repositories
	logger *logger.Logger
	config *config.Configuration
}

// SetupTest initializes clean state before each test.
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = logger.GetLogger()

	s.config = config.GetDefaultConfig()
	// Keep CAS retry backoff negligible so conflict-heavy tests run fast.
	s.config.Validation.CASBackoffBase = time.Millisecond
	// Membership caching would leak admin state across tests.
	s.config.Cache.Enabled = false

	s.store = docstore.NewInMemoryStore()
	s.stores = docstorerepo.NewRepositories(s.store, s.config, s.logger)
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetDocStore() *docstore.InMemoryStore {
	return s.store
}

func (s *BaseServiceTestSuite) GetStores() *docstorerepo.Repositories {
	return s.stores
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// Seed helpers write documents the way the external collaborators would.

func (s *BaseServiceTestSuite) SeedDocument(collection, key string, value interface{}) {
	_, err := s.store.Set(s.ctx, collection, key, value, nil)
	s.Require().NoError(err)
}

func (s *BaseServiceTestSuite) SeedPlatformAdmin(userID string) {
	s.SeedDocument(types.CollectionPlatformAdmins, userID, map[string]interface{}{
		"user_id":    userID,
		"granted_by": "bootstrap",
		"granted_at": time.Now().UTC(),
	})
}

func (s *BaseServiceTestSuite) SeedTemplate(id, resourceURL string) {
	s.SeedDocument(types.CollectionTemplates, id, map[string]interface{}{
		"id":           id,
		"name":         "Template " + id,
		"owner_id":     "owner",
		"resource_url": resourceURL,
	})
}
