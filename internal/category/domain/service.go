package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Reorder(ctx context.Context, req ReorderRequest) error

	// Delete refuses while the category is active. The cascade removes the
	// category's dish images first and aborts, touching nothing, when the
	// batch delete reports any per-key failure.
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	MenuID string `json:"menu_id"`
	Name   string `json:"name"`
}

type UpdateRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ReorderRequest lists every category id of the menu in its new order.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type Response struct {
	ID           string    `json:"id"`
	MenuID       string    `json:"menu_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrInvalidTenant  = errors.New("invalid_tenant")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidMenu    = errors.New("invalid_menu")
	ErrInvalidReorder = errors.New("invalid_reorder")
	ErrNotFound       = errors.New("category_not_found")
	ErrStillActive    = errors.New("category_still_active")
)
