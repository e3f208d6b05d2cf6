package domain

import (
	"context"
	"time"

	"github.com/getmenuly/menuly/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, notification *Notification) error
	List(ctx context.Context, db *gorm.DB, tenantID int64, page pagination.Pagination) ([]Notification, error)
	CountUnread(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error)
	MarkRead(ctx context.Context, db *gorm.DB, tenantID, id int64) (bool, error)
	MarkAllRead(ctx context.Context, db *gorm.DB, tenantID int64) error

	// ReminderExists reports whether a reminder for this offset bucket was
	// already created since the given time. Scoping the check to the
	// current period lets the bucket reset after a renewal.
	ReminderExists(ctx context.Context, db *gorm.DB, tenantID int64, daysBefore int, since time.Time) (bool, error)
}
