package repository

import (
	"context"
	"errors"

	"github.com/getmenuly/menuly/internal/plan/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.PlanDefinition, error) {
	var def domain.PlanDefinition
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *repo) FindByCodeCycle(ctx context.Context, db *gorm.DB, code domain.PlanCode, cycle domain.BillingCycle) (*domain.PlanDefinition, error) {
	var def domain.PlanDefinition
	err := db.WithContext(ctx).
		Where("code = ? AND billing_cycle = ?", code, cycle).
		First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.PlanDefinition, error) {
	var defs []domain.PlanDefinition
	stmt := db.WithContext(ctx).Model(&domain.PlanDefinition{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	if err := stmt.Order("amount ASC").Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, def *domain.PlanDefinition) error {
	if def == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}, {Name: "billing_cycle"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount", "currency", "duration_days", "popular", "active", "updated_at",
			}),
		}).
		Create(def).Error
}
