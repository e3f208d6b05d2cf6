package domain

import (
	"context"
	"errors"
	"time"

	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
)

// Mode says what a successful payment buys: a fresh plan or more time on
// the current one.
type Mode string

const (
	ModeUpgrade Mode = "upgrade"
	ModeExtend  Mode = "extend"
)

type Service interface {
	// CreateOrder opens a gateway order for a purchasable plan variant.
	CreateOrder(ctx context.Context, planID string) (*OrderResponse, error)

	// Reconcile verifies the payment proof and applies the subscription
	// change in one write. Verification failure writes nothing.
	Reconcile(ctx context.Context, req ReconcileRequest) (*ReconcileResponse, error)
}

type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
	PlanID   string `json:"plan_id"`
}

type ReconcileRequest struct {
	PlanID            string `json:"plan_id"`
	Mode              Mode   `json:"mode"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type ReconcileResponse struct {
	Plan         plandomain.PlanCode      `json:"plan"`
	BillingCycle plandomain.BillingCycle  `json:"billing_cycle"`
	StartedAt    *time.Time               `json:"started_at"`
	ExpiresAt    *time.Time               `json:"expires_at"`
}

var (
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrInvalidMode        = errors.New("invalid_mode")
	ErrInvalidProof       = errors.New("invalid_payment_proof")
	ErrVerificationFailed = errors.New("verification_failed")
)
