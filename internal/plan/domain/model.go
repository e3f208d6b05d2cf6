package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type PlanCode string

const (
	PlanFree       PlanCode = "free"
	PlanBasic      PlanCode = "basic"
	PlanPro        PlanCode = "pro"
	PlanEnterprise PlanCode = "enterprise"
)

type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// PlanLimits is the closed record of what a plan permits. A nil counter
// means unlimited.
type PlanLimits struct {
	MaxMenus      *int
	MaxCategories *int
	MaxDishes     *int
	MaxImages     *int

	AllowImages      bool
	GoogleReview     bool
	RemoveWatermark  bool
	CustomBranding   bool
	Analytics        bool
	MultipleBranches bool
	CustomDomain     bool
	WhiteLabel       bool
}

func limit(n int) *int { return &n }

var catalog = map[PlanCode]PlanLimits{
	PlanFree: {
		MaxMenus:      limit(1),
		MaxCategories: limit(3),
		MaxDishes:     limit(10),
		MaxImages:     limit(0),
	},
	PlanBasic: {
		MaxMenus:        limit(1),
		MaxCategories:   limit(10),
		MaxDishes:       limit(50),
		MaxImages:       limit(50),
		AllowImages:     true,
		GoogleReview:    true,
		RemoveWatermark: true,
	},
	PlanPro: {
		MaxImages:       limit(300),
		AllowImages:     true,
		GoogleReview:    true,
		RemoveWatermark: true,
		CustomBranding:  true,
		Analytics:       true,
	},
	PlanEnterprise: {
		AllowImages:      true,
		GoogleReview:     true,
		RemoveWatermark:  true,
		CustomBranding:   true,
		Analytics:        true,
		MultipleBranches: true,
		CustomDomain:     true,
		WhiteLabel:       true,
	},
}

// Limits returns the entitlements for a plan. Unknown codes fall back to
// the free plan so the caller never fails open.
func Limits(code PlanCode) PlanLimits {
	if limits, ok := catalog[code]; ok {
		return limits
	}
	return catalog[PlanFree]
}

// Codes lists every plan in the catalog in upgrade order.
func Codes() []PlanCode {
	return []PlanCode{PlanFree, PlanBasic, PlanPro, PlanEnterprise}
}

// ParsePlanCode validates a plan code from untrusted input.
func ParsePlanCode(value string) (PlanCode, bool) {
	code := PlanCode(strings.ToLower(strings.TrimSpace(value)))
	_, ok := catalog[code]
	return code, ok
}

// ParseBillingCycle validates a billing cycle from untrusted input.
func ParseBillingCycle(value string) (BillingCycle, bool) {
	switch BillingCycle(strings.ToLower(strings.TrimSpace(value))) {
	case CycleMonthly:
		return CycleMonthly, true
	case CycleYearly:
		return CycleYearly, true
	default:
		return "", false
	}
}

// DurationDays returns how many days one paid period of the cycle covers.
func DurationDays(cycle BillingCycle) int {
	if cycle == CycleYearly {
		return 365
	}
	return 30
}

// DisplayName renders the plan code for user-facing messages.
func DisplayName(code PlanCode) string {
	value := string(code)
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

// PlanDefinition is the purchasable variant of a plan: one row per
// (code, billing_cycle) with its price in minor currency units.
type PlanDefinition struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Code         PlanCode     `gorm:"type:text;not null;uniqueIndex:ux_plan_definitions_code_cycle,priority:1"`
	BillingCycle BillingCycle `gorm:"column:billing_cycle;type:text;not null;uniqueIndex:ux_plan_definitions_code_cycle,priority:2"`

	Amount       int64  `gorm:"not null"`
	Currency     string `gorm:"type:text;not null;default:INR"`
	DurationDays int    `gorm:"column:duration_days;not null"`
	Popular      bool   `gorm:"not null;default:false"`
	Active       bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PlanDefinition) TableName() string { return "plan_definitions" }
