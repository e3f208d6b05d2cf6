package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/getmenuly/menuly/internal/tenant/domain"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, restaurant *domain.Restaurant) error {
	if restaurant == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(restaurant).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repo) FindByOwner(ctx context.Context, db *gorm.DB, ownerUserID int64) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	err := db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Restaurant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var restaurant domain.Restaurant
	err := db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, restaurant *domain.Restaurant) error {
	if restaurant == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE restaurants
		 SET name = ?, google_place_id = ?, logo_url = ?, theme_color = ?, updated_at = ?
		 WHERE id = ?`,
		restaurant.Name,
		restaurant.GooglePlaceID,
		restaurant.LogoURL,
		restaurant.ThemeColor,
		restaurant.UpdatedAt,
		restaurant.ID,
	).Error
}

func (r *repo) ListWithExpiry(ctx context.Context, db *gorm.DB) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	err := db.WithContext(ctx).
		Where("subscription_expires_at IS NOT NULL").
		Order("subscription_expires_at ASC").
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *repo) AdjustImageCount(ctx context.Context, db *gorm.DB, tenantID int64, delta int) error {
	if delta == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE restaurants SET image_count = image_count + ?, updated_at = ? WHERE id = ?`,
		delta,
		time.Now().UTC(),
		tenantID,
	).Error
}

func (r *repo) TransitionStatus(ctx context.Context, db *gorm.DB, tenantID int64, from, to subdomain.Status) (bool, error) {
	if err := subdomain.Transition(from, to); err != nil {
		return false, err
	}
	result := db.WithContext(ctx).Exec(
		`UPDATE restaurants SET subscription_status = ?, updated_at = ?
		 WHERE id = ? AND subscription_status = ?`,
		to,
		time.Now().UTC(),
		tenantID,
		from,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) UpdateSubscription(ctx context.Context, db *gorm.DB, update domain.SubscriptionUpdate) error {
	return db.WithContext(ctx).Exec(
		`UPDATE restaurants
		 SET subscription_plan = ?, billing_cycle = ?, subscription_status = ?,
		     subscription_started_at = ?, subscription_expires_at = ?,
		     razorpay_order_id = ?, razorpay_payment_id = ?, updated_at = ?
		 WHERE id = ?`,
		update.Plan,
		update.Cycle,
		update.Status,
		update.StartedAt,
		update.ExpiresAt,
		update.RazorpayOrderID,
		update.RazorpayPaymentID,
		time.Now().UTC(),
		update.TenantID,
	).Error
}
