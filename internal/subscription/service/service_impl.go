package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/clock"
	notificationdomain "github.com/getmenuly/menuly/internal/notification/domain"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	"github.com/getmenuly/menuly/internal/subscription/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reminder offsets in days before expiry, largest first.
var reminderOffsets = []int{7, 3, 1}

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	Clock            clock.Clock
	GenID            *snowflake.Node
	TenantRepo       tenantdomain.Repository
	NotificationRepo notificationdomain.Repository
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	clock            clock.Clock
	genID            *snowflake.Node
	tenantRepo       tenantdomain.Repository
	notificationRepo notificationdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("subscription.service"),
		clock:            p.Clock,
		genID:            p.GenID,
		tenantRepo:       p.TenantRepo,
		notificationRepo: p.NotificationRepo,
	}
}

func (s *Service) Sweep(ctx context.Context) (domain.SweepResult, error) {
	now := s.clock.Now()

	restaurants, err := s.tenantRepo.ListWithExpiry(ctx, s.db)
	if err != nil {
		return domain.SweepResult{}, err
	}

	var result domain.SweepResult
	var sweepErrs []error
	for i := range restaurants {
		restaurant := &restaurants[i]
		if err := s.sweepOne(ctx, restaurant, now, &result); err != nil {
			result.Failed++
			sweepErrs = append(sweepErrs, fmt.Errorf("tenant %d: %w", restaurant.ID, err))
			s.log.Error("sweep tenant failed",
				zap.Int64("tenant_id", int64(restaurant.ID)),
				zap.Error(err),
			)
		}
	}

	s.log.Info("subscription sweep finished",
		zap.Int("tenants", len(restaurants)),
		zap.Int("reminders_sent", result.RemindersSent),
		zap.Int("expired", result.Expired),
		zap.Int("failed", result.Failed),
	)
	return result, errors.Join(sweepErrs...)
}

func (s *Service) sweepOne(ctx context.Context, restaurant *tenantdomain.Restaurant, now time.Time, result *domain.SweepResult) error {
	if restaurant.SubscriptionExpiresAt == nil {
		return nil
	}
	expiresAt := restaurant.SubscriptionExpiresAt.UTC()

	// Wall-clock comparison decides expiry, not a day bucket, so a sweep
	// that skipped a day still expires everything overdue.
	if !now.Before(expiresAt) {
		if restaurant.SubscriptionStatus != domain.StatusActive {
			return nil
		}
		changed, err := s.tenantRepo.TransitionStatus(ctx, s.db, int64(restaurant.ID), domain.StatusActive, domain.StatusExpired)
		if err != nil {
			return err
		}
		if !changed {
			// Another instance won the guarded update.
			return nil
		}
		result.Expired++
		return s.notificationRepo.Create(ctx, s.db, &notificationdomain.Notification{
			ID:       s.genID.Generate(),
			TenantID: restaurant.ID,
			Type:     notificationdomain.TypeSubscriptionExpired,
			Title:    "Subscription expired",
			Message: fmt.Sprintf(
				"Your %s plan has expired. Renew to bring your menu back online.",
				plandomain.DisplayName(restaurant.SubscriptionPlan),
			),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if restaurant.SubscriptionStatus != domain.StatusActive {
		return nil
	}

	days := domain.DaysRemaining(expiresAt, now)
	for _, offset := range reminderOffsets {
		if days != offset {
			continue
		}
		since := expiresAt.AddDate(0, 0, -(offset + 1))
		exists, err := s.notificationRepo.ReminderExists(ctx, s.db, int64(restaurant.ID), offset, since)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		offsetValue := offset
		if err := s.notificationRepo.Create(ctx, s.db, &notificationdomain.Notification{
			ID:         s.genID.Generate(),
			TenantID:   restaurant.ID,
			Type:       notificationdomain.TypeSubscriptionReminder,
			Title:      "Subscription expiring soon",
			Message: fmt.Sprintf(
				"Your %s plan expires in %d day(s). Renew to keep your menu online.",
				plandomain.DisplayName(restaurant.SubscriptionPlan), offset,
			),
			DaysBefore: &offsetValue,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
		result.RemindersSent++
		return nil
	}
	return nil
}
