package domain

import (
	"context"

	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, restaurant *Restaurant) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Restaurant, error)
	FindByOwner(ctx context.Context, db *gorm.DB, ownerUserID int64) (*Restaurant, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Restaurant, error)
	Update(ctx context.Context, db *gorm.DB, restaurant *Restaurant) error

	// ListWithExpiry returns restaurants with a non-nil expiry timestamp,
	// regardless of status, for sweep processing.
	ListWithExpiry(ctx context.Context, db *gorm.DB) ([]Restaurant, error)

	// AdjustImageCount applies a server-side relative update so concurrent
	// adjustments never lose increments.
	AdjustImageCount(ctx context.Context, db *gorm.DB, tenantID int64, delta int) error

	// TransitionStatus flips the subscription status only when the row
	// still holds the expected current status. Returns false when the
	// guard did not match.
	TransitionStatus(ctx context.Context, db *gorm.DB, tenantID int64, from, to subdomain.Status) (bool, error)

	// UpdateSubscription persists every subscription field in a single
	// statement.
	UpdateSubscription(ctx context.Context, db *gorm.DB, update SubscriptionUpdate) error
}
