package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, category *Category) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*Category, error)
	List(ctx context.Context, db *gorm.DB, tenantID int64) ([]Category, error)
	ListByMenu(ctx context.Context, db *gorm.DB, tenantID, menuID int64) ([]Category, error)
	Update(ctx context.Context, db *gorm.DB, category *Category) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id int64) error
	CountByTenant(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error)
	CountByMenu(ctx context.Context, db *gorm.DB, tenantID, menuID int64) (int64, error)

	// SetDisplayOrders persists a reorder permutation in one transaction.
	SetDisplayOrders(ctx context.Context, db *gorm.DB, tenantID int64, orders map[snowflake.ID]int) error
}
