package repository

import (
	"context"
	"errors"

	"github.com/getmenuly/menuly/internal/menu/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, menu *domain.Menu) error {
	if menu == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(menu).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id int64) (*domain.Menu, error) {
	var menu domain.Menu
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID int64) ([]domain.Menu, error) {
	var menus []domain.Menu
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, menu *domain.Menu) error {
	if menu == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE menus SET name = ?, is_active = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		menu.Name,
		menu.IsActive,
		menu.UpdatedAt,
		menu.TenantID,
		menu.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id int64) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Menu{}).Error
}

func (r *repo) CountByTenant(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Menu{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}
