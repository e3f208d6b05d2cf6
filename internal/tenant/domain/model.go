package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
)

// Restaurant is the tenant aggregate. Every owned resource carries its id,
// and the subscription fields plus image_count live directly on the row.
type Restaurant struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	OwnerUserID snowflake.ID `gorm:"column:owner_user_id;not null;uniqueIndex:ux_restaurants_owner"`

	Name          string  `gorm:"type:text;not null"`
	Slug          string  `gorm:"type:text;not null;uniqueIndex:ux_restaurants_slug"`
	GooglePlaceID *string `gorm:"column:google_place_id;type:text"`
	LogoURL       *string `gorm:"column:logo_url;type:text"`
	ThemeColor    *string `gorm:"column:theme_color;type:text"`

	SubscriptionPlan      plandomain.PlanCode      `gorm:"column:subscription_plan;type:text;not null;default:free"`
	BillingCycle          *plandomain.BillingCycle `gorm:"column:billing_cycle;type:text"`
	SubscriptionStatus    subdomain.Status         `gorm:"column:subscription_status;type:text;not null;default:active"`
	OnHold                bool                     `gorm:"column:on_hold;not null;default:false"`
	SubscriptionStartedAt *time.Time               `gorm:"column:subscription_started_at"`
	SubscriptionExpiresAt *time.Time               `gorm:"column:subscription_expires_at"`

	// Denormalized count of stored dish images, maintained by atomic
	// server-side adjustments only.
	ImageCount int `gorm:"column:image_count;not null;default:0"`

	RazorpayCustomerID *string `gorm:"column:razorpay_customer_id;type:text"`
	RazorpayOrderID    *string `gorm:"column:razorpay_order_id;type:text"`
	RazorpayPaymentID  *string `gorm:"column:razorpay_payment_id;type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Restaurant) TableName() string { return "restaurants" }

// SubscriptionUpdate carries every subscription field written by a
// reconcile so the repository can persist them in one statement.
type SubscriptionUpdate struct {
	TenantID snowflake.ID

	Plan      plandomain.PlanCode
	Cycle     plandomain.BillingCycle
	Status    subdomain.Status
	StartedAt *time.Time
	ExpiresAt *time.Time

	RazorpayOrderID   *string
	RazorpayPaymentID *string
}
