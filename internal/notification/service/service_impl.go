package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/notification/domain"
	"github.com/getmenuly/menuly/pkg/db/pagination"
	"github.com/getmenuly/menuly/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("notification.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	notifications, err := s.repo.List(ctx, s.db, int64(tenantID), req.Page)
	if err != nil {
		return nil, err
	}
	notifications, pageInfo := pagination.BuildCursorPageInfo(notifications, req.Page.Limit(), func(n domain.Notification) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        n.ID.String(),
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	unread, err := s.repo.CountUnread(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}

	resp := &domain.ListResponse{
		PageInfo:      pageInfo,
		Notifications: make([]domain.Response, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for _, notification := range notifications {
		item := domain.Response{
			ID:         notification.ID.String(),
			Type:       notification.Type,
			Title:      notification.Title,
			Message:    notification.Message,
			DaysBefore: notification.DaysBefore,
			Read:       notification.Read,
			CreatedAt:  notification.CreatedAt,
		}
		if len(notification.Metadata) > 0 {
			item.Metadata = map[string]any(notification.Metadata)
		}
		resp.Notifications = append(resp.Notifications, item)
	}
	return resp, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ErrInvalidTenant
	}

	notificationID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	updated, err := s.repo.MarkRead(ctx, s.db, int64(tenantID), notificationID.Int64())
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ErrInvalidTenant
	}
	return s.repo.MarkAllRead(ctx, s.db, int64(tenantID))
}
