package types

// Unlimited marks a quota dimension with no cap. Downstream checks must
// short-circuit when they see it.
const Unlimited = -1

// PlanID identifies a subscription plan in the static plan table.
type PlanID string

const (
	PlanFree     PlanID = "free"
	PlanStarter  PlanID = "starter"
	PlanPro      PlanID = "pro"
	PlanBusiness PlanID = "business"
)

// LimitSource records where the effective limits came from, in priority
// order: admin override > subscription > free tier.
type LimitSource string

const (
	LimitSourceAdminOverride LimitSource = "admin_override"
	LimitSourceSubscription  LimitSource = "subscription"
	LimitSourceFreeTier      LimitSource = "free_tier"
)

// PlanLimits is one row of the static plan table.
type PlanLimits struct {
	DocumentsPerDay    int `json:"documents_per_day"`
	DocumentsPerMonth  int `json:"documents_per_month"`
	BulkExportsPerDay  int `json:"bulk_exports_per_day"`
	MaxTemplates       int `json:"max_templates"`
	MaxFileSizeMB      int `json:"max_file_size_mb"`
	MaxBulkExportBatch int `json:"max_bulk_export_batch"`
}

// EffectivePlanLimits is the resolved limit set for a user, after layering
// overrides on top of the base plan.
type EffectivePlanLimits struct {
	PlanID PlanID      `json:"plan_id"`
	Limits PlanLimits  `json:"limits"`
	Source LimitSource `json:"source"`
}

// planTable is the static plan catalog. Limit changes here are product
// decisions, not code decisions.
var planTable = map[PlanID]PlanLimits{
	PlanFree: {
		DocumentsPerDay:    5,
		DocumentsPerMonth:  50,
		BulkExportsPerDay:  1,
		MaxTemplates:       10,
		MaxFileSizeMB:      5,
		MaxBulkExportBatch: 10,
	},
	PlanStarter: {
		DocumentsPerDay:    50,
		DocumentsPerMonth:  1000,
		BulkExportsPerDay:  5,
		MaxTemplates:       100,
		MaxFileSizeMB:      25,
		MaxBulkExportBatch: 25,
	},
	PlanPro: {
		DocumentsPerDay:    200,
		DocumentsPerMonth:  5000,
		BulkExportsPerDay:  20,
		MaxTemplates:       500,
		MaxFileSizeMB:      100,
		MaxBulkExportBatch: 50,
	},
	PlanBusiness: {
		DocumentsPerDay:    Unlimited,
		DocumentsPerMonth:  Unlimited,
		BulkExportsPerDay:  50,
		MaxTemplates:       Unlimited,
		MaxFileSizeMB:      500,
		MaxBulkExportBatch: 100,
	},
}

// GetPlanLimits returns the limits for a plan, falling back to the free
// tier for unknown plan ids.
func GetPlanLimits(planID PlanID) PlanLimits {
	if limits, ok := planTable[planID]; ok {
		return limits
	}
	return planTable[PlanFree]
}

// FreeTierLimits returns the free-tier row of the plan table.
func FreeTierLimits() PlanLimits {
	return planTable[PlanFree]
}

// AdminLimits returns the unlimited limit set used for platform admins.
func AdminLimits() PlanLimits {
	return PlanLimits{
		DocumentsPerDay:    Unlimited,
		DocumentsPerMonth:  Unlimited,
		BulkExportsPerDay:  Unlimited,
		MaxTemplates:       Unlimited,
		MaxFileSizeMB:      Unlimited,
		MaxBulkExportBatch: Unlimited,
	}
}
