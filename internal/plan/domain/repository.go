package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*PlanDefinition, error)
	FindByCodeCycle(ctx context.Context, db *gorm.DB, code PlanCode, cycle BillingCycle) (*PlanDefinition, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]PlanDefinition, error)
	Upsert(ctx context.Context, db *gorm.DB, def *PlanDefinition) error
}
