package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/category/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	if category == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*domain.Category, error) {
	var category domain.Category
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID int64) ([]domain.Category, error) {
	var categories []domain.Category
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("display_order ASC, created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) ListByMenu(ctx context.Context, db *gorm.DB, tenantID, menuID int64) ([]domain.Category, error) {
	var categories []domain.Category
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND menu_id = ?", tenantID, menuID).
		Order("display_order ASC, created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	if category == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE categories SET name = ?, is_active = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		category.Name,
		category.IsActive,
		category.UpdatedAt,
		category.TenantID,
		category.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id int64) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Category{}).Error
}

func (r *repo) CountByTenant(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *repo) CountByMenu(ctx context.Context, db *gorm.DB, tenantID, menuID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("tenant_id = ? AND menu_id = ?", tenantID, menuID).
		Count(&count).Error
	return count, err
}

func (r *repo) SetDisplayOrders(ctx context.Context, db *gorm.DB, tenantID int64, orders map[snowflake.ID]int) error {
	if len(orders) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, position := range orders {
			result := tx.Exec(
				`UPDATE categories SET display_order = ?, updated_at = ?
				 WHERE tenant_id = ? AND id = ?`,
				position,
				now,
				tenantID,
				id,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
