package repository

import (
	"context"
	"errors"

	"github.com/getmenuly/menuly/internal/dish/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, dish *domain.Dish) error {
	if dish == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(dish).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*domain.Dish, error) {
	var dish domain.Dish
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&dish).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID int64) ([]domain.Dish, error) {
	var dishes []domain.Dish
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

func (r *repo) ListByCategory(ctx context.Context, db *gorm.DB, tenantID, categoryID int64) ([]domain.Dish, error) {
	var dishes []domain.Dish
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND category_id = ?", tenantID, categoryID).
		Order("created_at ASC").
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, dish *domain.Dish) error {
	if dish == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE dishes
		 SET name = ?, description = ?, price = ?, image_url = ?, is_available = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		dish.Name,
		dish.Description,
		dish.Price,
		dish.ImageURL,
		dish.IsAvailable,
		dish.UpdatedAt,
		dish.TenantID,
		dish.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id int64) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Dish{}).Error
}

func (r *repo) DeleteByCategory(ctx context.Context, db *gorm.DB, tenantID, categoryID int64) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND category_id = ?", tenantID, categoryID).
		Delete(&domain.Dish{}).Error
}

func (r *repo) CountByTenant(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Dish{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}
