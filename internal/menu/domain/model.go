package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Menu struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index:ix_menus_tenant"`

	Name     string `gorm:"type:text;not null"`
	IsActive bool   `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Menu) TableName() string { return "menus" }
