package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	GetByCodeCycle(ctx context.Context, code PlanCode, cycle BillingCycle) (*Response, error)
}

type Response struct {
	ID           string       `json:"id"`
	Code         PlanCode     `json:"code"`
	Name         string       `json:"name"`
	BillingCycle BillingCycle `json:"billing_cycle"`
	Amount       int64        `json:"amount"`
	Currency     string       `json:"currency"`
	DurationDays int          `json:"duration_days"`
	Popular      bool         `json:"popular"`
	Limits       LimitsView   `json:"limits"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// LimitsView is the wire shape of PlanLimits.
type LimitsView struct {
	MaxMenus         *int `json:"max_menus"`
	MaxCategories    *int `json:"max_categories"`
	MaxDishes        *int `json:"max_dishes"`
	MaxImages        *int `json:"max_images"`
	AllowImages      bool `json:"allow_images"`
	GoogleReview     bool `json:"google_review"`
	RemoveWatermark  bool `json:"remove_watermark"`
	CustomBranding   bool `json:"custom_branding"`
	Analytics        bool `json:"analytics"`
	MultipleBranches bool `json:"multiple_branches"`
	CustomDomain     bool `json:"custom_domain"`
	WhiteLabel       bool `json:"white_label"`
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidPlan  = errors.New("invalid_plan")
	ErrInvalidCycle = errors.New("invalid_billing_cycle")
	ErrNotFound     = errors.New("plan_not_found")
)
