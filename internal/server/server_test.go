package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	categorydomain "github.com/getmenuly/menuly/internal/category/domain"
	categoryrepository "github.com/getmenuly/menuly/internal/category/repository"
	"github.com/getmenuly/menuly/internal/clock"
	dishdomain "github.com/getmenuly/menuly/internal/dish/domain"
	dishrepository "github.com/getmenuly/menuly/internal/dish/repository"
	mediadomain "github.com/getmenuly/menuly/internal/media/domain"
	mediaservice "github.com/getmenuly/menuly/internal/media/service"
	menudomain "github.com/getmenuly/menuly/internal/menu/domain"
	menurepository "github.com/getmenuly/menuly/internal/menu/repository"
	menuservice "github.com/getmenuly/menuly/internal/menu/service"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subscriptiondomain "github.com/getmenuly/menuly/internal/subscription/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	tenantrepository "github.com/getmenuly/menuly/internal/tenant/repository"
	tenantservice "github.com/getmenuly/menuly/internal/tenant/service"
	"github.com/getmenuly/menuly/pkg/tenantctx"
)

type nullStore struct{}

func (nullStore) PresignUpload(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, error) {
	return "https://upload.example/" + key, nil
}
func (nullStore) PublicURL(key string) string { return "https://cdn.example/" + key }
func (nullStore) Delete(ctx context.Context, key string) error {
	return nil
}
func (nullStore) DeleteBatch(ctx context.Context, keys []string) ([]string, []mediadomain.KeyError, error) {
	return keys, nil, nil
}

type fixture struct {
	engine     *gin.Engine
	db         *gorm.DB
	node       *snowflake.Node
	clock      *clock.FakeClock
	tenantRepo tenantdomain.Repository
	menuRepo   menudomain.Repository
	restaurant *tenantdomain.Restaurant
}

func setup(t *testing.T, restaurant *tenantdomain.Restaurant) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&tenantdomain.Restaurant{},
		&menudomain.Menu{},
		&categorydomain.Category{},
		&dishdomain.Dish{},
	))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	if restaurant.ID == 0 {
		restaurant.ID = node.Generate()
	}
	if restaurant.OwnerUserID == 0 {
		restaurant.OwnerUserID = node.Generate()
	}

	tenantRepo := tenantrepository.Provide()
	menuRepo := menurepository.Provide()
	categoryRepo := categoryrepository.Provide()
	dishRepo := dishrepository.Provide()
	require.NoError(t, tenantRepo.Create(context.Background(), db, restaurant))

	fakeClock := clock.NewFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	srv := &Server{
		db:    db,
		clock: fakeClock,
		genID: node,
		tenantSvc: tenantservice.New(tenantservice.Params{
			DB: db, Log: zap.NewNop(), Repo: tenantRepo,
		}),
		menuSvc: menuservice.New(menuservice.Params{
			DB: db, Log: zap.NewNop(), GenID: node,
			Repo: menuRepo, TenantRepo: tenantRepo, CategoryRepo: categoryRepo,
		}),
		mediaSvc: mediaservice.New(mediaservice.Params{
			DB: db, Log: zap.NewNop(), Store: nullStore{}, TenantRepo: tenantRepo,
		}),
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
		dishRepo:     dishRepo,
	}

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	// Session middleware stand-in: every request acts as the fixture tenant.
	asTenant := func(c *gin.Context) {
		ctx := tenantctx.WithTenantID(c.Request.Context(), restaurant.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}

	api := r.Group("/api", asTenant)
	api.POST("/menus", srv.CreateMenu)
	api.POST("/upload/presigned-url", srv.PresignUpload)
	r.GET("/menu/:slug", srv.PublicMenu)

	return &fixture{
		engine:     r,
		db:         db,
		node:       node,
		clock:      fakeClock,
		tenantRepo: tenantRepo,
		menuRepo:   menuRepo,
		restaurant: restaurant,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateMenuQuotaDenied(t *testing.T) {
	f := setup(t, &tenantdomain.Restaurant{
		Name:               "Free Cafe",
		Slug:               "free-cafe",
		SubscriptionPlan:   plandomain.PlanFree,
		SubscriptionStatus: subscriptiondomain.StatusActive,
	})

	rec := f.do(t, http.MethodPost, "/api/menus", `{"name":"Lunch"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/menus", `{"name":"Dinner"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	payload := decodeError(t, rec)
	require.Equal(t, "quota_exceeded", payload.Type)
	require.Equal(t, "Your free plan allows only 1 menu(s). Upgrade to create more.", payload.Message)
}

func TestPresignUploadFeatureDenied(t *testing.T) {
	f := setup(t, &tenantdomain.Restaurant{
		Name:               "Free Cafe",
		Slug:               "free-cafe",
		SubscriptionPlan:   plandomain.PlanFree,
		SubscriptionStatus: subscriptiondomain.StatusActive,
	})

	rec := f.do(t, http.MethodPost, "/api/upload/presigned-url", `{"filename":"dish.jpg","content_type":"image/jpeg"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	payload := decodeError(t, rec)
	require.Equal(t, "feature_disabled", payload.Type)
	require.Equal(t, "Image uploads are not available on the free plan. Upgrade to add dish photos.", payload.Message)
}

func TestPublicMenuHiddenWhenLapsed(t *testing.T) {
	expired := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	f := setup(t, &tenantdomain.Restaurant{
		Name:                  "Lapsed Cafe",
		Slug:                  "lapsed-cafe",
		SubscriptionPlan:      plandomain.PlanBasic,
		SubscriptionStatus:    subscriptiondomain.StatusActive,
		SubscriptionExpiresAt: &expired,
	})

	rec := f.do(t, http.MethodGet, "/menu/lapsed-cafe", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicMenuShowsWatermarkByPlan(t *testing.T) {
	f := setup(t, &tenantdomain.Restaurant{
		Name:               "Free Cafe",
		Slug:               "free-cafe",
		SubscriptionPlan:   plandomain.PlanFree,
		SubscriptionStatus: subscriptiondomain.StatusActive,
	})

	seedMenu := &menudomain.Menu{
		ID:       f.node.Generate(),
		TenantID: f.restaurant.ID,
		Name:     "All Day",
		IsActive: true,
	}
	require.NoError(t, f.menuRepo.Create(context.Background(), f.db, seedMenu))

	rec := f.do(t, http.MethodGet, "/menu/free-cafe", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data publicMenuResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.ShowWatermark)
	require.False(t, resp.Data.GoogleReview)
	require.Len(t, resp.Data.Menus, 1)
	require.Equal(t, "All Day", resp.Data.Menus[0].Name)
}

func TestPublicMenuUnknownSlug(t *testing.T) {
	f := setup(t, &tenantdomain.Restaurant{
		Name:               "Cafe",
		Slug:               "cafe",
		SubscriptionPlan:   plandomain.PlanFree,
		SubscriptionStatus: subscriptiondomain.StatusActive,
	})

	rec := f.do(t, http.MethodGet, "/menu/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
