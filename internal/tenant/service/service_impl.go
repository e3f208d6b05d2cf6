package service

import (
	"context"
	"strings"
	"time"

	"github.com/getmenuly/menuly/internal/tenant/domain"
	"github.com/getmenuly/menuly/pkg/tenantctx"
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
		log:  p.Log.Named("tenant.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	restaurant, err := s.repo.FindByID(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(restaurant)
	return &resp, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	restaurant, err := s.repo.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrNotFound
	}
	return restaurant, nil
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	restaurant, err := s.repo.FindByID(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		restaurant.Name = name
	}
	if req.GooglePlaceID != nil {
		restaurant.GooglePlaceID = normalizeOptional(*req.GooglePlaceID)
	}
	if req.LogoURL != nil {
		restaurant.LogoURL = normalizeOptional(*req.LogoURL)
	}
	if req.ThemeColor != nil {
		restaurant.ThemeColor = normalizeOptional(*req.ThemeColor)
	}

	restaurant.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, restaurant); err != nil {
		return nil, err
	}

	resp := toResponse(restaurant)
	return &resp, nil
}

func toResponse(r *domain.Restaurant) domain.Response {
	return domain.Response{
		ID:                    r.ID.String(),
		Name:                  r.Name,
		Slug:                  r.Slug,
		GooglePlaceID:         r.GooglePlaceID,
		LogoURL:               r.LogoURL,
		ThemeColor:            r.ThemeColor,
		SubscriptionPlan:      r.SubscriptionPlan,
		BillingCycle:          r.BillingCycle,
		SubscriptionStatus:    r.SubscriptionStatus,
		OnHold:                r.OnHold,
		SubscriptionStartedAt: r.SubscriptionStartedAt,
		SubscriptionExpiresAt: r.SubscriptionExpiresAt,
		ImageCount:            r.ImageCount,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func normalizeOptional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
