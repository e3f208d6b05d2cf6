package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/getmenuly/menuly/internal/auth/domain"
	"github.com/getmenuly/menuly/internal/clock"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	tenantrepository "github.com/getmenuly/menuly/internal/tenant/repository"
	"github.com/getmenuly/menuly/internal/auth/repository"
)

type fixture struct {
	svc   *Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&tenantdomain.Restaurant{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	userRepo, sessionRepo := repository.Provide()
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	return &fixture{
		svc: &Service{
			db:          db,
			log:         zap.NewNop(),
			clock:       fakeClock,
			genID:       node,
			repo:        userRepo,
			sessionRepo: sessionRepo,
			tenantRepo:  tenantrepository.Provide(),
			sessionTTL:  7 * 24 * time.Hour,
		},
		db:    db,
		clock: fakeClock,
	}
}

func signup(t *testing.T, f *fixture, email, name string) *domain.LoginResult {
	t.Helper()
	result, err := f.svc.Signup(context.Background(), domain.SignupRequest{
		Email:          email,
		Password:       "correct horse battery",
		RestaurantName: name,
	})
	require.NoError(t, err)
	return result
}

func TestSignupProvisionsRestaurant(t *testing.T) {
	f := setup(t)

	result := signup(t, f, "owner@example.com", "Tandoori Nights")
	require.NotEmpty(t, result.RawToken)
	require.NotNil(t, result.Restaurant)
	require.Equal(t, "tandoori-nights", result.Restaurant.Slug)
	require.Equal(t, plandomain.PlanFree, result.Restaurant.SubscriptionPlan)
	require.Equal(t, subdomain.StatusActive, result.Restaurant.SubscriptionStatus)
	require.Nil(t, result.Restaurant.SubscriptionExpiresAt)

	identity, err := f.svc.Authenticate(context.Background(), result.RawToken)
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", identity.User.Email)
	require.Equal(t, result.Restaurant.ID, identity.Restaurant.ID)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	f := setup(t)

	signup(t, f, "owner@example.com", "First Cafe")
	_, err := f.svc.Signup(context.Background(), domain.SignupRequest{
		Email:          "Owner@Example.com",
		Password:       "another password",
		RestaurantName: "Second Cafe",
	})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestSignupSuffixesTakenSlug(t *testing.T) {
	f := setup(t)

	first := signup(t, f, "a@example.com", "Spice Route")
	second := signup(t, f, "b@example.com", "Spice Route")
	require.Equal(t, "spice-route", first.Restaurant.Slug)
	require.Equal(t, "spice-route-2", second.Restaurant.Slug)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Signup(context.Background(), domain.SignupRequest{
		Email:          "owner@example.com",
		Password:       "short",
		RestaurantName: "Cafe",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginVerifiesPassword(t *testing.T) {
	f := setup(t)
	signup(t, f, "owner@example.com", "Cafe Nine")

	_, err := f.svc.Login(context.Background(), domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "wrong password",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := f.svc.Login(context.Background(), domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)
	require.NotNil(t, result.Restaurant)
	require.Equal(t, "cafe-nine", result.Restaurant.Slug)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever works",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := setup(t)
	result := signup(t, f, "owner@example.com", "Cafe Ten")

	require.NoError(t, f.svc.Logout(context.Background(), result.RawToken))

	_, err := f.svc.Authenticate(context.Background(), result.RawToken)
	require.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	f := setup(t)
	result := signup(t, f, "owner@example.com", "Cafe Eleven")

	f.clock.Advance(7*24*time.Hour + time.Minute)

	_, err := f.svc.Authenticate(context.Background(), result.RawToken)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = f.svc.Authenticate(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrInvalidSession)
}
