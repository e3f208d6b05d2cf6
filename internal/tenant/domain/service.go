package domain

import (
	"context"
	"errors"
	"time"

	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
)

type Service interface {
	Get(ctx context.Context) (*Response, error)
	GetBySlug(ctx context.Context, slug string) (*Restaurant, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*Response, error)
}

type UpdateSettingsRequest struct {
	Name          *string `json:"name,omitempty"`
	GooglePlaceID *string `json:"google_place_id,omitempty"`
	LogoURL       *string `json:"logo_url,omitempty"`
	ThemeColor    *string `json:"theme_color,omitempty"`
}

type Response struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	GooglePlaceID *string `json:"google_place_id,omitempty"`
	LogoURL       *string `json:"logo_url,omitempty"`
	ThemeColor    *string `json:"theme_color,omitempty"`

	SubscriptionPlan      plandomain.PlanCode      `json:"subscription_plan"`
	BillingCycle          *plandomain.BillingCycle `json:"billing_cycle,omitempty"`
	SubscriptionStatus    subdomain.Status         `json:"subscription_status"`
	OnHold                bool                     `json:"on_hold"`
	SubscriptionStartedAt *time.Time               `json:"subscription_started_at,omitempty"`
	SubscriptionExpiresAt *time.Time               `json:"subscription_expires_at,omitempty"`

	ImageCount int `json:"image_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrNotFound      = errors.New("restaurant_not_found")
)
