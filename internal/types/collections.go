package types

// Document-store collection names consumed and produced by the pipeline.
const (
	CollectionAccessRequests     = "download_requests"
	CollectionSubscriptions      = "subscriptions"
	CollectionOverrides          = "subscription_overrides"
	CollectionUsage              = "usage"
	CollectionExportUsage        = "export_usage"
	CollectionRateLimits         = "rate_limits"
	CollectionSecurityEvents     = "security_events"
	CollectionAdminNotifications = "admin_notifications"
	CollectionPlatformAdmins     = "platform_admins"
	CollectionTemplates          = "templates"
)
