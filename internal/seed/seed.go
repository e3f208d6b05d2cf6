package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	planrepository "github.com/getmenuly/menuly/internal/plan/repository"
	"gorm.io/gorm"
)

type planRow struct {
	Code         plandomain.PlanCode
	Cycle        plandomain.BillingCycle
	Amount       int64
	DurationDays int
	Popular      bool
}

// Amounts are in paise. The free plan has no purchasable row.
var planRows = []planRow{
	{plandomain.PlanBasic, plandomain.CycleMonthly, 2900, 30, false},
	{plandomain.PlanBasic, plandomain.CycleYearly, 29000, 365, false},
	{plandomain.PlanPro, plandomain.CycleMonthly, 7900, 30, true},
	{plandomain.PlanPro, plandomain.CycleYearly, 79000, 365, false},
	{plandomain.PlanEnterprise, plandomain.CycleMonthly, 19900, 30, false},
	{plandomain.PlanEnterprise, plandomain.CycleYearly, 199000, 365, false},
}

// EnsurePlanDefinitions upserts the purchasable plan catalog on startup so
// pricing changes ship with the binary rather than by hand-edited rows.
func EnsurePlanDefinitions(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	repo := planrepository.Provide()
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, row := range planRows {
			def := &plandomain.PlanDefinition{
				ID:           node.Generate(),
				Code:         row.Code,
				BillingCycle: row.Cycle,
				Amount:       row.Amount,
				Currency:     "INR",
				DurationDays: row.DurationDays,
				Popular:      row.Popular,
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := repo.Upsert(ctx, tx, def); err != nil {
				return err
			}
		}
		return nil
	})
}
