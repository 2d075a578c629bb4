package service

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

// ServiceParams holds common dependencies for services. Constructed once at
// startup and passed by reference; no service reaches for globals.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	DocStore docstore.Store

	AccessRequestRepo accessrequest.Repository
	SubscriptionRepo  subscription.Repository
	OverrideRepo      subscription.OverrideRepository
	UsageRepo         usage.Repository
	ExportUsageRepo   usage.ExportRepository
	RateLimitRepo     ratelimit.Repository
	SecurityEventRepo security.EventRepository
	NotificationRepo  security.NotificationRepository
	AdminRepo         admin.Repository
	TemplateRepo      template.Repository
}
