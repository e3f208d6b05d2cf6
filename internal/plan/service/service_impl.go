package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("plan.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	defs, err := s.repo.List(ctx, s.db, true)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(defs))
	for _, def := range defs {
		resp = append(resp, toResponse(&def))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	def, err := s.repo.FindByID(ctx, s.db, planID.Int64())
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(def)
	return &resp, nil
}

func (s *Service) GetByCodeCycle(ctx context.Context, code domain.PlanCode, cycle domain.BillingCycle) (*domain.Response, error) {
	if _, ok := domain.ParsePlanCode(string(code)); !ok {
		return nil, domain.ErrInvalidPlan
	}
	if _, ok := domain.ParseBillingCycle(string(cycle)); !ok {
		return nil, domain.ErrInvalidCycle
	}

	def, err := s.repo.FindByCodeCycle(ctx, s.db, code, cycle)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(def)
	return &resp, nil
}

func toResponse(def *domain.PlanDefinition) domain.Response {
	limits := domain.Limits(def.Code)
	return domain.Response{
		ID:           def.ID.String(),
		Code:         def.Code,
		Name:         domain.DisplayName(def.Code),
		BillingCycle: def.BillingCycle,
		Amount:       def.Amount,
		Currency:     def.Currency,
		DurationDays: def.DurationDays,
		Popular:      def.Popular,
		Limits: domain.LimitsView{
			MaxMenus:         limits.MaxMenus,
			MaxCategories:    limits.MaxCategories,
			MaxDishes:        limits.MaxDishes,
			MaxImages:        limits.MaxImages,
			AllowImages:      limits.AllowImages,
			GoogleReview:     limits.GoogleReview,
			RemoveWatermark:  limits.RemoveWatermark,
			CustomBranding:   limits.CustomBranding,
			Analytics:        limits.Analytics,
			MultipleBranches: limits.MultipleBranches,
			CustomDomain:     limits.CustomDomain,
			WhiteLabel:       limits.WhiteLabel,
		},
		CreatedAt: def.CreatedAt,
		UpdatedAt: def.UpdatedAt,
	}
}
