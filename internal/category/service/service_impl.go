package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/category/domain"
	dishdomain "github.com/getmenuly/menuly/internal/dish/domain"
	"github.com/getmenuly/menuly/internal/entitlement"
	mediadomain "github.com/getmenuly/menuly/internal/media/domain"
	menudomain "github.com/getmenuly/menuly/internal/menu/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	"github.com/getmenuly/menuly/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	TenantRepo tenantdomain.Repository
	MenuRepo   menudomain.Repository
	DishRepo   dishdomain.Repository
	Media      mediadomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	tenantRepo tenantdomain.Repository
	menuRepo   menudomain.Repository
	dishRepo   dishdomain.Repository
	media      mediadomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("category.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		tenantRepo: p.TenantRepo,
		menuRepo:   p.MenuRepo,
		dishRepo:   p.DishRepo,
		media:      p.Media,
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

	menuID, err := snowflake.ParseString(strings.TrimSpace(req.MenuID))
	if err != nil {
		return nil, domain.ErrInvalidMenu
	}
	menu, err := s.menuRepo.FindByID(ctx, s.db, int64(tenantID), menuID.Int64())
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, domain.ErrInvalidMenu
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
	decision := entitlement.Check(restaurant.SubscriptionPlan, entitlement.CreateCategory{
		CurrentCount: int(count),
	})
	if err := entitlement.Deny(decision); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		MenuID:       menuID,
		Name:         name,
		DisplayOrder: int(count),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, category); err != nil {
		return nil, err
	}

	resp := toResponse(category)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	categories, err := s.repo.List(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, toResponse(&category))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	category, err := s.repo.FindByID(ctx, s.db, int64(tenantID), categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		category.Name = name
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	category.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, category); err != nil {
		return nil, err
	}

	resp := toResponse(category)
	return &resp, nil
}

func (s *Service) Reorder(ctx context.Context, req domain.ReorderRequest) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ErrInvalidTenant
	}

	if len(req.IDs) == 0 {
		return domain.ErrInvalidReorder
	}

	orders := make(map[snowflake.ID]int, len(req.IDs))
	for position, raw := range req.IDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return domain.ErrInvalidReorder
		}
		if _, dup := orders[id]; dup {
			return domain.ErrInvalidReorder
		}
		orders[id] = position
	}

	// The permutation must cover the tenant's categories exactly: no
	// stray ids, no holes in 0..n-1.
	count, err := s.repo.CountByTenant(ctx, s.db, int64(tenantID))
	if err != nil {
		return err
	}
	if int64(len(orders)) != count {
		return domain.ErrInvalidReorder
	}

	if err := s.repo.SetDisplayOrders(ctx, s.db, int64(tenantID), orders); err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrInvalidReorder
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ErrInvalidTenant
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	category, err := s.repo.FindByID(ctx, s.db, int64(tenantID), categoryID.Int64())
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	if category.IsActive {
		return domain.ErrStillActive
	}

	dishes, err := s.dishRepo.ListByCategory(ctx, s.db, int64(tenantID), categoryID.Int64())
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(dishes))
	for _, dish := range dishes {
		if dish.ImageURL != nil && *dish.ImageURL != "" {
			urls = append(urls, *dish.ImageURL)
		}
	}

	// Objects go first. A partial batch failure aborts with rows and
	// counter untouched; on success the decrement commits with the row
	// deletes, so a failed row delete rolls the counter back too.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.media.RemoveAll(ctx, tx, tenantID, urls); err != nil {
			return err
		}
		if err := s.dishRepo.DeleteByCategory(ctx, tx, int64(tenantID), categoryID.Int64()); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, int64(tenantID), categoryID.Int64())
	})
}

func toResponse(c *domain.Category) domain.Response {
	return domain.Response{
		ID:           c.ID.String(),
		MenuID:       c.MenuID.String(),
		Name:         c.Name,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
