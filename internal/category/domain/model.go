package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Category struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index:ix_categories_tenant"`
	MenuID   snowflake.ID `gorm:"column:menu_id;not null;index:ix_categories_menu"`

	Name         string `gorm:"type:text;not null"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0"`
	IsActive     bool   `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }
