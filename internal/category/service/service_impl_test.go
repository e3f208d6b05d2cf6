package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/category/domain"
	categoryrepository "github.com/getmenuly/menuly/internal/category/repository"
	dishdomain "github.com/getmenuly/menuly/internal/dish/domain"
	dishrepository "github.com/getmenuly/menuly/internal/dish/repository"
	"github.com/getmenuly/menuly/internal/entitlement"
	mediadomain "github.com/getmenuly/menuly/internal/media/domain"
	mediaservice "github.com/getmenuly/menuly/internal/media/service"
	menudomain "github.com/getmenuly/menuly/internal/menu/domain"
	menurepository "github.com/getmenuly/menuly/internal/menu/repository"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	tenantrepository "github.com/getmenuly/menuly/internal/tenant/repository"
	"github.com/getmenuly/menuly/pkg/tenantctx"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeStore struct {
	mu       sync.Mutex
	deletes  []string
	failKeys map[string]bool
}

func (f *fakeStore) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return "https://bucket.example/upload/" + key, nil
}

func (f *fakeStore) PublicURL(key string) string { return "https://bucket.example/" + key }

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeStore) DeleteBatch(ctx context.Context, keys []string) ([]string, []mediadomain.KeyError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted []string
	var failed []mediadomain.KeyError
	for _, key := range keys {
		if f.failKeys[key] {
			failed = append(failed, mediadomain.KeyError{Key: key, Code: "InternalError", Message: "simulated"})
			continue
		}
		f.deletes = append(f.deletes, key)
		deleted = append(deleted, key)
	}
	return deleted, failed, nil
}

type fixture struct {
	svc        *Service
	store      *fakeStore
	db         *gorm.DB
	node       *snowflake.Node
	tenantRepo tenantdomain.Repository
	dishRepo   dishdomain.Repository
	restaurant *tenantdomain.Restaurant
	menu       *menudomain.Menu
	ctx        context.Context
}

func setup(t *testing.T, plan plandomain.PlanCode) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&tenantdomain.Restaurant{},
		&menudomain.Menu{},
		&domain.Category{},
		&dishdomain.Dish{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	tenantRepo := tenantrepository.Provide()
	menuRepo := menurepository.Provide()
	categoryRepo := categoryrepository.Provide()
	dishRepo := dishrepository.Provide()
	store := &fakeStore{}

	media := mediaservice.New(mediaservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Store:      store,
		TenantRepo: tenantRepo,
	})

	restaurant := &tenantdomain.Restaurant{
		ID:                 node.Generate(),
		OwnerUserID:        node.Generate(),
		Name:               "Tandoor House",
		Slug:               "tandoor-house",
		SubscriptionPlan:   plan,
		SubscriptionStatus: subdomain.StatusActive,
	}
	require.NoError(t, tenantRepo.Create(context.Background(), db, restaurant))

	menu := &menudomain.Menu{
		ID:       node.Generate(),
		TenantID: restaurant.ID,
		Name:     "Dinner",
		IsActive: true,
	}
	require.NoError(t, menuRepo.Create(context.Background(), db, menu))

	svc := &Service{
		db:         db,
		log:        zap.NewNop(),
		genID:      node,
		repo:       categoryRepo,
		tenantRepo: tenantRepo,
		menuRepo:   menuRepo,
		dishRepo:   dishRepo,
		media:      media,
	}

	return &fixture{
		svc:        svc,
		store:      store,
		db:         db,
		node:       node,
		tenantRepo: tenantRepo,
		dishRepo:   dishRepo,
		restaurant: restaurant,
		menu:       menu,
		ctx:        tenantctx.WithTenantID(context.Background(), restaurant.ID),
	}
}

func (f *fixture) seedCategory(t *testing.T, active bool, imageURLs ...string) *domain.Category {
	t.Helper()
	category := &domain.Category{
		ID:       f.node.Generate(),
		TenantID: f.restaurant.ID,
		MenuID:   f.menu.ID,
		Name:     "Starters",
		IsActive: active,
	}
	require.NoError(t, f.db.Create(category).Error)
	require.NoError(t, f.db.Model(category).UpdateColumn("is_active", active).Error)

	images := 0
	for i, url := range imageURLs {
		imageURL := url
		dish := &dishdomain.Dish{
			ID:          f.node.Generate(),
			TenantID:    f.restaurant.ID,
			CategoryID:  category.ID,
			Name:        fmt.Sprintf("dish-%d", i),
			Price:       10000,
			IsAvailable: true,
		}
		if imageURL != "" {
			dish.ImageURL = &imageURL
			images++
		}
		require.NoError(t, f.db.Create(dish).Error)
	}

	if images > 0 {
		require.NoError(t, f.tenantRepo.AdjustImageCount(context.Background(), f.db, int64(f.restaurant.ID), images))
	}
	return category
}

func (f *fixture) imageCount(t *testing.T) int {
	t.Helper()
	got, err := f.tenantRepo.FindByID(context.Background(), f.db, int64(f.restaurant.ID))
	require.NoError(t, err)
	return got.ImageCount
}

func TestCreateQuotaDenied(t *testing.T) {
	f := setup(t, plandomain.PlanFree)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(f.ctx, domain.CreateRequest{
			MenuID: f.menu.ID.String(),
			Name:   fmt.Sprintf("Category %d", i),
		})
		require.NoError(t, err)
	}

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{
		MenuID: f.menu.ID.String(),
		Name:   "One Too Many",
	})
	require.ErrorIs(t, err, entitlement.ErrQuotaExceeded)

	var denied *entitlement.DeniedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, "Your free plan allows only 3 categories. Upgrade to create more.", denied.Decision.Reason)
}

func TestCreateFreesSlotAfterDelete(t *testing.T) {
	f := setup(t, plandomain.PlanFree)
	category := f.seedCategory(t, false)

	// Two more fill the free quota of three.
	for i := 0; i < 2; i++ {
		_, err := f.svc.Create(f.ctx, domain.CreateRequest{MenuID: f.menu.ID.String(), Name: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
	}
	_, err := f.svc.Create(f.ctx, domain.CreateRequest{MenuID: f.menu.ID.String(), Name: "denied"})
	require.ErrorIs(t, err, entitlement.ErrQuotaExceeded)

	require.NoError(t, f.svc.Delete(f.ctx, category.ID.String()))

	_, err = f.svc.Create(f.ctx, domain.CreateRequest{MenuID: f.menu.ID.String(), Name: "allowed again"})
	require.NoError(t, err)
}

func TestDeleteRefusesActiveCategory(t *testing.T) {
	f := setup(t, plandomain.PlanBasic)
	category := f.seedCategory(t, true)

	err := f.svc.Delete(f.ctx, category.ID.String())
	require.ErrorIs(t, err, domain.ErrStillActive)
}

func TestDeleteCascadeRemovesDishesAndImages(t *testing.T) {
	f := setup(t, plandomain.PlanBasic)
	category := f.seedCategory(t, false,
		"https://bucket.example/restaurants/9/01A-a.jpg",
		"https://bucket.example/restaurants/9/01B-b.jpg",
		"",
	)

	require.NoError(t, f.svc.Delete(f.ctx, category.ID.String()))

	var dishCount int64
	require.NoError(t, f.db.Model(&dishdomain.Dish{}).Where("category_id = ?", category.ID).Count(&dishCount).Error)
	require.Zero(t, dishCount)
	require.Equal(t, 0, f.imageCount(t))
	require.Len(t, f.store.deletes, 2)
}

func TestDeleteAbortsOnPartialBatchFailure(t *testing.T) {
	f := setup(t, plandomain.PlanBasic)
	category := f.seedCategory(t, false,
		"https://bucket.example/restaurants/9/01A-a.jpg",
		"https://bucket.example/restaurants/9/01B-b.jpg",
	)
	f.store.failKeys = map[string]bool{"restaurants/9/01B-b.jpg": true}

	err := f.svc.Delete(f.ctx, category.ID.String())
	require.ErrorIs(t, err, mediadomain.ErrStorageInconsistency)

	// Nothing row-side was deleted and the counter is untouched.
	var dishCount int64
	require.NoError(t, f.db.Model(&dishdomain.Dish{}).Where("category_id = ?", category.ID).Count(&dishCount).Error)
	require.Equal(t, int64(2), dishCount)

	var categoryCount int64
	require.NoError(t, f.db.Model(&domain.Category{}).Where("id = ?", category.ID).Count(&categoryCount).Error)
	require.Equal(t, int64(1), categoryCount)

	require.Equal(t, 2, f.imageCount(t))
}

func TestReorderPersistsPermutation(t *testing.T) {
	f := setup(t, plandomain.PlanBasic)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := f.svc.Create(f.ctx, domain.CreateRequest{MenuID: f.menu.ID.String(), Name: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	// Reverse the order.
	require.NoError(t, f.svc.Reorder(f.ctx, domain.ReorderRequest{IDs: []string{ids[2], ids[1], ids[0]}}))

	listed, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	require.Equal(t, ids[2], listed[0].ID)
	require.Equal(t, ids[1], listed[1].ID)
	require.Equal(t, ids[0], listed[2].ID)
}

func TestReorderRejectsPartialPermutation(t *testing.T) {
	f := setup(t, plandomain.PlanBasic)

	ids := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		resp, err := f.svc.Create(f.ctx, domain.CreateRequest{MenuID: f.menu.ID.String(), Name: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	err := f.svc.Reorder(f.ctx, domain.ReorderRequest{IDs: []string{ids[0]}})
	require.ErrorIs(t, err, domain.ErrInvalidReorder)

	err = f.svc.Reorder(f.ctx, domain.ReorderRequest{IDs: []string{ids[0], ids[0]}})
	require.ErrorIs(t, err, domain.ErrInvalidReorder)
}
