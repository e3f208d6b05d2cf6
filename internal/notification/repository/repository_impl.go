package repository

import (
	"context"
	"time"

	"github.com/getmenuly/menuly/internal/notification/domain"
	"github.com/getmenuly/menuly/pkg/db/option"
	"github.com/getmenuly/menuly/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	if notification == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(notification).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID int64, page pagination.Pagination) ([]domain.Notification, error) {
	var notifications []domain.Notification
	stmt := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("tenant_id = ?", tenantID)
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repo) CountUnread(ctx context.Context, db *gorm.DB, tenantID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("tenant_id = ? AND read = ?", tenantID, false).
		Count(&count).Error
	return count, err
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, tenantID, id int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE notifications SET read = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		true,
		time.Now().UTC(),
		tenantID,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) MarkAllRead(ctx context.Context, db *gorm.DB, tenantID int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE notifications SET read = ?, updated_at = ? WHERE tenant_id = ? AND read = ?`,
		true,
		time.Now().UTC(),
		tenantID,
		false,
	).Error
}

func (r *repo) ReminderExists(ctx context.Context, db *gorm.DB, tenantID int64, daysBefore int, since time.Time) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("tenant_id = ? AND type = ? AND days_before = ? AND created_at >= ?",
			tenantID, domain.TypeSubscriptionReminder, daysBefore, since).
		Count(&count).Error
	return count > 0, err
}
