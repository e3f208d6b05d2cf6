package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Type string

const (
	TypeSubscriptionReminder Type = "subscription_reminder"
	TypeSubscriptionExpired  Type = "subscription_expired"
	TypePaymentReceived      Type = "payment_received"
)

type Notification struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index:ix_notifications_tenant"`

	Type    Type   `gorm:"type:text;not null"`
	Title   string `gorm:"type:text;not null"`
	Message string `gorm:"type:text;not null"`

	// DaysBefore is the reminder offset bucket. Its presence per
	// (tenant, offset) is the sweep's dedupe record.
	DaysBefore *int `gorm:"column:days_before"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb"`
	Read     bool              `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Notification) TableName() string { return "notifications" }
