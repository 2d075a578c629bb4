package service

import (
	"github.com/docuforge/docuforge/internal/testutil"
)

// newTestServiceParams wires ServiceParams from the suite's in-memory
// stores, mirroring the production wiring in cmd/server.
func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		DocStore:          s.GetDocStore(),
		AccessRequestRepo: stores.AccessRequest,
		SubscriptionRepo:  stores.Subscription,
		OverrideRepo:      stores.Override,
		UsageRepo:         stores.Usage,
		ExportUsageRepo:   stores.ExportUsage,
		RateLimitRepo:     stores.RateLimit,
		SecurityEventRepo: stores.SecurityEvent,
		NotificationRepo:  stores.Notification,
		AdminRepo:         stores.Admin,
		TemplateRepo:      stores.Template,
	}
}
