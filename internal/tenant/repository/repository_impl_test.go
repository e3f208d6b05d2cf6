package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
	"github.com/getmenuly/menuly/internal/tenant/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Restaurant{}))
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, repo domain.Repository) *domain.Restaurant {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	restaurant := &domain.Restaurant{
		ID:                 node.Generate(),
		OwnerUserID:        node.Generate(),
		Name:               "Cafe Aroma",
		Slug:               "cafe-aroma",
		SubscriptionPlan:   plandomain.PlanBasic,
		SubscriptionStatus: subdomain.StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), db, restaurant))
	return restaurant
}

func TestAdjustImageCountConcurrent(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	restaurant := seedRestaurant(t, db, repo)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			delta := 1
			if i%4 == 3 {
				delta = -1
			}
			if err := repo.AdjustImageCount(context.Background(), db, int64(restaurant.ID), delta); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.FindByID(context.Background(), db, int64(restaurant.ID))
	require.NoError(t, err)
	// 15 increments, 5 decrements.
	require.Equal(t, 10, got.ImageCount)
}

func TestAdjustImageCountZeroDeltaIsNoop(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	restaurant := seedRestaurant(t, db, repo)

	require.NoError(t, repo.AdjustImageCount(context.Background(), db, int64(restaurant.ID), 0))

	got, err := repo.FindByID(context.Background(), db, int64(restaurant.ID))
	require.NoError(t, err)
	require.Equal(t, 0, got.ImageCount)
}

func TestTransitionStatusGuarded(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	restaurant := seedRestaurant(t, db, repo)

	changed, err := repo.TransitionStatus(context.Background(), db, int64(restaurant.ID), subdomain.StatusActive, subdomain.StatusExpired)
	require.NoError(t, err)
	require.True(t, changed)

	// Second identical transition finds the guard stale.
	changed, err = repo.TransitionStatus(context.Background(), db, int64(restaurant.ID), subdomain.StatusActive, subdomain.StatusExpired)
	require.NoError(t, err)
	require.False(t, changed)

	got, err := repo.FindByID(context.Background(), db, int64(restaurant.ID))
	require.NoError(t, err)
	require.Equal(t, subdomain.StatusExpired, got.SubscriptionStatus)
}

func TestTransitionStatusRejectsInvalidEdge(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	restaurant := seedRestaurant(t, db, repo)

	_, err := repo.TransitionStatus(context.Background(), db, int64(restaurant.ID), subdomain.StatusCanceled, subdomain.StatusExpired)
	require.ErrorIs(t, err, subdomain.ErrInvalidTransition)
}

func TestUpdateSubscriptionWritesAllFields(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	restaurant := seedRestaurant(t, db, repo)

	started := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expires := started.AddDate(0, 0, 30)
	orderID := "order_123"
	paymentID := "pay_456"

	err := repo.UpdateSubscription(context.Background(), db, domain.SubscriptionUpdate{
		TenantID:          restaurant.ID,
		Plan:              plandomain.PlanPro,
		Cycle:             plandomain.CycleMonthly,
		Status:            subdomain.StatusActive,
		StartedAt:         &started,
		ExpiresAt:         &expires,
		RazorpayOrderID:   &orderID,
		RazorpayPaymentID: &paymentID,
	})
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), db, int64(restaurant.ID))
	require.NoError(t, err)
	require.Equal(t, plandomain.PlanPro, got.SubscriptionPlan)
	require.NotNil(t, got.BillingCycle)
	require.Equal(t, plandomain.CycleMonthly, *got.BillingCycle)
	require.Equal(t, subdomain.StatusActive, got.SubscriptionStatus)
	require.Equal(t, started, got.SubscriptionStartedAt.UTC())
	require.Equal(t, expires, got.SubscriptionExpiresAt.UTC())
	require.Equal(t, orderID, *got.RazorpayOrderID)
	require.Equal(t, paymentID, *got.RazorpayPaymentID)
}

func TestFindBySlug(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	restaurant := seedRestaurant(t, db, repo)

	got, err := repo.FindBySlug(context.Background(), db, "cafe-aroma")
	require.NoError(t, err)
	require.Equal(t, restaurant.ID, got.ID)

	got, err = repo.FindBySlug(context.Background(), db, "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}
