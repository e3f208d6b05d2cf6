package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, dish *Dish) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*Dish, error)
	List(ctx context.Context, db *gorm.DB, tenantID int64) ([]Dish, error)
	ListByCategory(ctx context.Context, db *gorm.DB, tenantID, categoryID int64) ([]Dish, error)
	Update(ctx context.Context, db *gorm.DB, dish *Dish) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id int64) error
	DeleteByCategory(ctx context.Context, db *gorm.DB, tenantID, categoryID int64) error
	CountByTenant(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error)
}
