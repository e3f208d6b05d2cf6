package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Dish struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	TenantID   snowflake.ID `gorm:"column:tenant_id;not null;index:ix_dishes_tenant"`
	CategoryID snowflake.ID `gorm:"column:category_id;not null;index:ix_dishes_category"`

	Name        string  `gorm:"type:text;not null"`
	Description *string `gorm:"type:text"`

	// Price in minor currency units (paise).
	Price int64 `gorm:"not null;default:0"`

	ImageURL    *string `gorm:"column:image_url;type:text"`
	IsAvailable bool    `gorm:"column:is_available;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Dish) TableName() string { return "dishes" }
