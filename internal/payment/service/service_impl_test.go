package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/clock"
	notificationdomain "github.com/getmenuly/menuly/internal/notification/domain"
	notificationrepository "github.com/getmenuly/menuly/internal/notification/repository"
	"github.com/getmenuly/menuly/internal/payment/domain"
	"github.com/getmenuly/menuly/internal/payment/razorpay"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	planrepository "github.com/getmenuly/menuly/internal/plan/repository"
	planservice "github.com/getmenuly/menuly/internal/plan/service"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	tenantrepository "github.com/getmenuly/menuly/internal/tenant/repository"
	"github.com/getmenuly/menuly/pkg/tenantctx"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test_key_secret"

type stubGateway struct {
	orders int
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error) {
	g.orders++
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (g *stubGateway) KeyID() string { return "rzp_test_key" }

type fixture struct {
	svc        *Service
	db         *gorm.DB
	node       *snowflake.Node
	clock      *clock.FakeClock
	tenantRepo tenantdomain.Repository
	planID     snowflake.ID
	ctx        context.Context
	restaurant *tenantdomain.Restaurant
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func setup(t *testing.T, now time.Time, restaurant *tenantdomain.Restaurant) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&tenantdomain.Restaurant{},
		&plandomain.PlanDefinition{},
		&notificationdomain.Notification{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	planRepo := planrepository.Provide()
	planID := node.Generate()
	require.NoError(t, planRepo.Upsert(context.Background(), db, &plandomain.PlanDefinition{
		ID:           planID,
		Code:         plandomain.PlanPro,
		BillingCycle: plandomain.CycleMonthly,
		Amount:       7900,
		Currency:     "INR",
		DurationDays: 30,
		Active:       true,
	}))

	planSvc := planservice.New(planservice.Params{DB: db, Log: zap.NewNop(), Repo: planRepo})
	tenantRepo := tenantrepository.Provide()

	if restaurant.ID == 0 {
		restaurant.ID = node.Generate()
	}
	if restaurant.OwnerUserID == 0 {
		restaurant.OwnerUserID = node.Generate()
	}
	require.NoError(t, tenantRepo.Create(context.Background(), db, restaurant))

	fakeClock := clock.NewFakeClock(now)
	svc := &Service{
		db:               db,
		log:              zap.NewNop(),
		clock:            fakeClock,
		genID:            node,
		gateway:          &stubGateway{},
		planService:      planSvc,
		tenantRepo:       tenantRepo,
		notificationRepo: notificationrepository.Provide(),
		keySecret:        testSecret,
	}

	return &fixture{
		svc:        svc,
		db:         db,
		node:       node,
		clock:      fakeClock,
		tenantRepo: tenantRepo,
		planID:     planID,
		ctx:        tenantctx.WithTenantID(context.Background(), restaurant.ID),
		restaurant: restaurant,
	}
}

func (f *fixture) reload(t *testing.T) *tenantdomain.Restaurant {
	t.Helper()
	got, err := f.tenantRepo.FindByID(context.Background(), f.db, int64(f.restaurant.ID))
	require.NoError(t, err)
	return got
}

func TestReconcileBadSignatureWritesNothing(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	expires := now.AddDate(0, 0, 10)
	f := setup(t, now, &tenantdomain.Restaurant{
		Name:                  "Verify Cafe",
		Slug:                  "verify-cafe",
		SubscriptionPlan:      plandomain.PlanBasic,
		SubscriptionStatus:    subdomain.StatusActive,
		SubscriptionExpiresAt: &expires,
	})

	_, err := f.svc.Reconcile(f.ctx, domain.ReconcileRequest{
		PlanID:            f.planID.String(),
		Mode:              domain.ModeUpgrade,
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "forged",
	})
	require.ErrorIs(t, err, domain.ErrVerificationFailed)

	got := f.reload(t)
	require.Equal(t, plandomain.PlanBasic, got.SubscriptionPlan)
	require.Equal(t, expires, got.SubscriptionExpiresAt.UTC())
	require.Nil(t, got.RazorpayOrderID)
	require.Nil(t, got.RazorpayPaymentID)
}

func TestReconcileUpgradeAdoptsPlanAndCycle(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	f := setup(t, now, &tenantdomain.Restaurant{
		Name:               "Upgrade Cafe",
		Slug:               "upgrade-cafe",
		SubscriptionPlan:   plandomain.PlanFree,
		SubscriptionStatus: subdomain.StatusActive,
	})

	resp, err := f.svc.Reconcile(f.ctx, domain.ReconcileRequest{
		PlanID:            f.planID.String(),
		Mode:              domain.ModeUpgrade,
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: sign("order_1", "pay_1"),
	})
	require.NoError(t, err)
	require.Equal(t, plandomain.PlanPro, resp.Plan)
	require.Equal(t, plandomain.CycleMonthly, resp.BillingCycle)
	require.Equal(t, now.AddDate(0, 0, 30), resp.ExpiresAt.UTC())

	got := f.reload(t)
	require.Equal(t, plandomain.PlanPro, got.SubscriptionPlan)
	require.Equal(t, subdomain.StatusActive, got.SubscriptionStatus)
	require.Equal(t, "order_1", *got.RazorpayOrderID)
	require.Equal(t, "pay_1", *got.RazorpayPaymentID)
}

func TestReconcileExtendPreservesPlanAndAddsDuration(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	started := now.AddDate(0, 0, -20)
	expires := now.AddDate(0, 0, 10)
	cycle := plandomain.CycleMonthly
	f := setup(t, now, &tenantdomain.Restaurant{
		Name:                  "Extend Cafe",
		Slug:                  "extend-cafe",
		SubscriptionPlan:      plandomain.PlanBasic,
		BillingCycle:          &cycle,
		SubscriptionStatus:    subdomain.StatusActive,
		SubscriptionStartedAt: &started,
		SubscriptionExpiresAt: &expires,
	})

	resp, err := f.svc.Reconcile(f.ctx, domain.ReconcileRequest{
		PlanID:            f.planID.String(),
		Mode:              domain.ModeExtend,
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: sign("order_1", "pay_1"),
	})
	require.NoError(t, err)

	// Plan and cycle survive; the future expiry is the baseline, so the
	// tenant keeps the 10 remaining days plus 30 more.
	require.Equal(t, plandomain.PlanBasic, resp.Plan)
	require.Equal(t, plandomain.CycleMonthly, resp.BillingCycle)
	require.Equal(t, expires.AddDate(0, 0, 30), resp.ExpiresAt.UTC())
	require.Equal(t, started, resp.StartedAt.UTC())

	got := f.reload(t)
	require.Equal(t, plandomain.PlanBasic, got.SubscriptionPlan)
	require.Equal(t, started, got.SubscriptionStartedAt.UTC())
}

func TestReconcileExtendAfterExpiryBaselinesNow(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, 0, -5)
	cycle := plandomain.CycleMonthly
	f := setup(t, now, &tenantdomain.Restaurant{
		Name:                  "Lapsed Cafe",
		Slug:                  "lapsed-cafe",
		SubscriptionPlan:      plandomain.PlanBasic,
		BillingCycle:          &cycle,
		SubscriptionStatus:    subdomain.StatusExpired,
		SubscriptionExpiresAt: &expired,
	})

	resp, err := f.svc.Reconcile(f.ctx, domain.ReconcileRequest{
		PlanID:            f.planID.String(),
		Mode:              domain.ModeExtend,
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: sign("order_1", "pay_1"),
	})
	require.NoError(t, err)

	// A lapsed expiry never credits the gap: the clock is the baseline
	// and started_at resets.
	require.Equal(t, now.AddDate(0, 0, 30), resp.ExpiresAt.UTC())
	require.Equal(t, now, resp.StartedAt.UTC())

	got := f.reload(t)
	require.Equal(t, subdomain.StatusActive, got.SubscriptionStatus)
}

func TestReconcileRejectsUnknownMode(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	f := setup(t, now, &tenantdomain.Restaurant{
		Name:               "Mode Cafe",
		Slug:               "mode-cafe",
		SubscriptionPlan:   plandomain.PlanFree,
		SubscriptionStatus: subdomain.StatusActive,
	})

	_, err := f.svc.Reconcile(f.ctx, domain.ReconcileRequest{
		PlanID:            f.planID.String(),
		Mode:              domain.Mode("sidegrade"),
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: sign("order_1", "pay_1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestCreateOrderReturnsCheckoutFields(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	f := setup(t, now, &tenantdomain.Restaurant{
		Name:               "Order Cafe",
		Slug:               "order-cafe",
		SubscriptionPlan:   plandomain.PlanFree,
		SubscriptionStatus: subdomain.StatusActive,
	})

	resp, err := f.svc.CreateOrder(f.ctx, f.planID.String())
	require.NoError(t, err)
	require.Equal(t, "order_1", resp.OrderID)
	require.Equal(t, int64(7900), resp.Amount)
	require.Equal(t, "INR", resp.Currency)
	require.Equal(t, "rzp_test_key", resp.KeyID)
}
