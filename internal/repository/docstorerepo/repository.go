package docstorerepo

import (
	"github.com/docuforge/docuforge/internal/config"
	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/accessrequest"
	"github.com/docuforge/docuforge/internal/domain/admin"
	"github.com/docuforge/docuforge/internal/domain/ratelimit"
	"github.com/docuforge/docuforge/internal/domain/security"
	"github.com/docuforge/docuforge/internal/domain/subscription"
	"github.com/docuforge/docuforge/internal/domain/template"
	"github.com/docuforge/docuforge/internal/domain/usage"
	"github.com/docuforge/docuforge/internal/logger"
)

// Repositories bundles every docstore-backed repository for wiring.
type Repositories struct {
	AccessRequest accessrequest.Repository
	Subscription  subscription.Repository
	Override      subscription.OverrideRepository
	Usage         usage.Repository
	ExportUsage   usage.ExportRepository
	RateLimit     ratelimit.Repository
	SecurityEvent security.EventRepository
	Notification  security.NotificationRepository
	Admin         admin.Repository
	Template      template.Repository
}

// NewRepositories constructs all repositories over one document store.
func NewRepositories(store docstore.Store, cfg *config.Configuration, log *logger.Logger) *Repositories {
	return &Repositories{
		AccessRequest: NewAccessRequestRepository(store, log),
		Subscription:  NewSubscriptionRepository(store, log),
		Override:      NewOverrideRepository(store, log),
		Usage:         NewUsageRepository(store, cfg, log),
		ExportUsage:   NewExportUsageRepository(store, cfg, log),
		RateLimit:     NewRateLimitRepository(store, cfg, log),
		SecurityEvent: NewSecurityEventRepository(store, log),
		Notification:  NewNotificationRepository(store, log),
		Admin:         NewAdminRepository(store, cfg, log),
		Template:      NewTemplateRepository(store, log),
	}
}
