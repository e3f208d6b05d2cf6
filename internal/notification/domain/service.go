package domain

import (
	"context"
	"errors"
	"time"

	"github.com/getmenuly/menuly/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

type ListRequest struct {
	Page pagination.Pagination
}

type ListResponse struct {
	pagination.PageInfo
	Notifications []Response `json:"notifications"`
	UnreadCount   int64      `json:"unread_count"`
}

type Response struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	DaysBefore *int           `json:"days_before,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Read       bool           `json:"read"`
	CreatedAt  time.Time      `json:"created_at"`
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("notification_not_found")
)
