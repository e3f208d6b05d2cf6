package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, menu *Menu) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*Menu, error)
	List(ctx context.Context, db *gorm.DB, tenantID int64) ([]Menu, error)
	Update(ctx context.Context, db *gorm.DB, menu *Menu) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id int64) error
	CountByTenant(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error)
}
