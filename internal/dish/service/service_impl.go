package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	categorydomain "github.com/getmenuly/menuly/internal/category/domain"
	"github.com/getmenuly/menuly/internal/dish/domain"
	"github.com/getmenuly/menuly/internal/entitlement"
	mediadomain "github.com/getmenuly/menuly/internal/media/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	"github.com/getmenuly/menuly/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	TenantRepo   tenantdomain.Repository
	CategoryRepo categorydomain.Repository
	Media        mediadomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	tenantRepo   tenantdomain.Repository
	categoryRepo categorydomain.Repository
	media        mediadomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("dish.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		tenantRepo:   p.TenantRepo,
		categoryRepo: p.CategoryRepo,
		media:        p.Media,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}
	category, err := s.categoryRepo.FindByID(ctx, s.db, int64(tenantID), categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrInvalidCategory
	}

	restaurant, err := s.tenantRepo.FindByID(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrInvalidTenant
	}

	count, err := s.repo.CountByTenant(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	decision := entitlement.Check(restaurant.SubscriptionPlan, entitlement.CreateDish{
		CurrentCount: int(count),
	})
	if err := entitlement.Deny(decision); err != nil {
		return nil, err
	}

	imageURL := normalizeURL(req.ImageURL)

	now := time.Now().UTC()
	dish := &domain.Dish{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		CategoryID:  categoryID,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    imageURL,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, dish); err != nil {
			return err
		}
		if imageURL != nil {
			return s.media.Apply(ctx, tx, tenantID, nil, imageURL)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(dish)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, categoryID string) ([]domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	var dishes []domain.Dish
	var err error
	if trimmed := strings.TrimSpace(categoryID); trimmed != "" {
		id, parseErr := snowflake.ParseString(trimmed)
		if parseErr != nil {
			return nil, domain.ErrInvalidCategory
		}
		dishes, err = s.repo.ListByCategory(ctx, s.db, int64(tenantID), id.Int64())
	} else {
		dishes, err = s.repo.List(ctx, s.db, int64(tenantID))
	}
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(dishes))
	for _, dish := range dishes {
		resp = append(resp, toResponse(&dish))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	dishID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	dish, err := s.repo.FindByID(ctx, s.db, int64(tenantID), dishID.Int64())
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, domain.ErrNotFound
	}

	oldImage := dish.ImageURL

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		dish.Name = name
	}
	if req.Description != nil {
		dish.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		dish.Price = *req.Price
	}
	if req.ClearImage {
		dish.ImageURL = nil
	} else if req.ImageURL != nil {
		dish.ImageURL = normalizeURL(req.ImageURL)
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}

	dish.UpdatedAt = time.Now().UTC()

	// Storage goes first inside the transaction: the old object is gone
	// (or tolerably stranded) before the row and the counter commit as
	// one write. A failed counter adjustment rolls the row back.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.media.Apply(ctx, tx, tenantID, oldImage, dish.ImageURL); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, dish)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(dish)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ErrInvalidTenant
	}

	dishID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	dish, err := s.repo.FindByID(ctx, s.db, int64(tenantID), dishID.Int64())
	if err != nil {
		return err
	}
	if dish == nil {
		return domain.ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dish.ImageURL != nil && *dish.ImageURL != "" {
			if err := s.media.Apply(ctx, tx, tenantID, dish.ImageURL, nil); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, int64(tenantID), dishID.Int64())
	})
}

func toResponse(d *domain.Dish) domain.Response {
	return domain.Response{
		ID:          d.ID.String(),
		CategoryID:  d.CategoryID.String(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		IsAvailable: d.IsAvailable,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func normalizeURL(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
