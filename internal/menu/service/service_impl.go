package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	categorydomain "github.com/getmenuly/menuly/internal/category/domain"
	"github.com/getmenuly/menuly/internal/entitlement"
	"github.com/getmenuly/menuly/internal/menu/domain"
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
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	tenantRepo   tenantdomain.Repository
	categoryRepo categorydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("menu.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		tenantRepo:   p.TenantRepo,
		categoryRepo: p.CategoryRepo,
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

	restaurant, err := s.tenantRepo.FindByID(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrInvalidTenant
	}

	// Creation quotas count live rows, so a menu deleted moments ago
	// frees its slot immediately.
	count, err := s.repo.CountByTenant(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	decision := entitlement.Check(restaurant.SubscriptionPlan, entitlement.CreateMenu{
		CurrentCount: int(count),
	})
	if err := entitlement.Deny(decision); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	menu := &domain.Menu{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, menu); err != nil {
		return nil, err
	}

	resp := toResponse(menu)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	menus, err := s.repo.List(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(menus))
	for _, menu := range menus {
		resp = append(resp, toResponse(&menu))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	menuID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	menu, err := s.repo.FindByID(ctx, s.db, int64(tenantID), menuID.Int64())
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		menu.Name = name
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	menu.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, menu); err != nil {
		return nil, err
	}

	resp := toResponse(menu)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ErrInvalidTenant
	}

	menuID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	menu, err := s.repo.FindByID(ctx, s.db, int64(tenantID), menuID.Int64())
	if err != nil {
		return err
	}
	if menu == nil {
		return domain.ErrNotFound
	}

	// Categories carry the image cleanup; deleting them one by one keeps
	// the object-store accounting in a single code path.
	count, err := s.categoryRepo.CountByMenu(ctx, s.db, int64(tenantID), menuID.Int64())
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrNotEmpty
	}

	return s.repo.Delete(ctx, s.db, int64(tenantID), menuID.Int64())
}

func toResponse(m *domain.Menu) domain.Response {
	return domain.Response{
		ID:        m.ID.String(),
		Name:      m.Name,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
