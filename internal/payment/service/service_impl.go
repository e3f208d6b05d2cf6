package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/clock"
	"github.com/getmenuly/menuly/internal/config"
	notificationdomain "github.com/getmenuly/menuly/internal/notification/domain"
	"github.com/getmenuly/menuly/internal/payment/domain"
	"github.com/getmenuly/menuly/internal/payment/razorpay"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subdomain "github.com/getmenuly/menuly/internal/subscription/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
	"github.com/getmenuly/menuly/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Gateway is the slice of the Razorpay client the service needs.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error)
	KeyID() string
}

func NewGateway(cfg config.Config) Gateway {
	return razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
}

type Params struct {
	fx.In

	Config           config.Config
	DB               *gorm.DB
	Log              *zap.Logger
	Clock            clock.Clock
	GenID            *snowflake.Node
	Gateway          Gateway
	PlanService      plandomain.Service
	TenantRepo       tenantdomain.Repository
	NotificationRepo notificationdomain.Repository
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	clock            clock.Clock
	genID            *snowflake.Node
	gateway          Gateway
	planService      plandomain.Service
	tenantRepo       tenantdomain.Repository
	notificationRepo notificationdomain.Repository
	keySecret        string
}

func New(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("payment.service"),
		clock:            p.Clock,
		genID:            p.GenID,
		gateway:          p.Gateway,
		planService:      p.PlanService,
		tenantRepo:       p.TenantRepo,
		notificationRepo: p.NotificationRepo,
		keySecret:        p.Config.RazorpayKeySecret,
	}
}

func (s *Service) CreateOrder(ctx context.Context, planID string) (*domain.OrderResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	planResp, err := s.planService.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	receipt := fmt.Sprintf("menuly_%d_%s", tenantID, planResp.ID)
	order, err := s.gateway.CreateOrder(ctx, planResp.Amount, planResp.Currency, receipt, map[string]string{
		"tenant_id": tenantID.String(),
		"plan_id":   planResp.ID,
	})
	if err != nil {
		return nil, err
	}

	return &domain.OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
		PlanID:   planResp.ID,
	}, nil
}

func (s *Service) Reconcile(ctx context.Context, req domain.ReconcileRequest) (*domain.ReconcileResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	mode := domain.Mode(strings.ToLower(strings.TrimSpace(string(req.Mode))))
	if mode != domain.ModeUpgrade && mode != domain.ModeExtend {
		return nil, domain.ErrInvalidMode
	}

	orderID := strings.TrimSpace(req.RazorpayOrderID)
	paymentID := strings.TrimSpace(req.RazorpayPaymentID)
	signature := strings.TrimSpace(req.RazorpaySignature)
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, domain.ErrInvalidProof
	}

	planResp, err := s.planService.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.tenantRepo.FindByID(ctx, s.db, int64(tenantID))
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, domain.ErrInvalidTenant
	}

	// Fail closed before any write. A forged proof touches nothing.
	if !razorpay.VerifySignature(orderID, paymentID, signature, s.keySecret) {
		s.log.Warn("payment signature verification failed",
			zap.Int64("tenant_id", int64(tenantID)),
			zap.String("order_id", orderID),
			zap.String("payment_id", paymentID),
		)
		return nil, domain.ErrVerificationFailed
	}

	now := s.clock.Now()

	// Remaining paid time is never forfeited: a future expiry is the
	// baseline, otherwise the clock.
	baseline := now
	unexpired := false
	if restaurant.SubscriptionExpiresAt != nil && restaurant.SubscriptionExpiresAt.After(now) {
		baseline = restaurant.SubscriptionExpiresAt.UTC()
		unexpired = true
	}
	newExpiry := baseline.AddDate(0, 0, planResp.DurationDays)

	update := tenantdomain.SubscriptionUpdate{
		TenantID:          restaurant.ID,
		Status:            subdomain.StatusActive,
		ExpiresAt:         &newExpiry,
		RazorpayOrderID:   &orderID,
		RazorpayPaymentID: &paymentID,
	}

	switch mode {
	case domain.ModeExtend:
		update.Plan = restaurant.SubscriptionPlan
		if restaurant.BillingCycle != nil {
			update.Cycle = *restaurant.BillingCycle
		} else {
			update.Cycle = planResp.BillingCycle
		}
		startedAt := now
		if unexpired && restaurant.SubscriptionStartedAt != nil {
			startedAt = restaurant.SubscriptionStartedAt.UTC()
		}
		update.StartedAt = &startedAt
	case domain.ModeUpgrade:
		update.Plan = planResp.Code
		update.Cycle = planResp.BillingCycle
		startedAt := now
		update.StartedAt = &startedAt
	}

	if err := s.tenantRepo.UpdateSubscription(ctx, s.db, update); err != nil {
		return nil, err
	}

	if err := s.notificationRepo.Create(ctx, s.db, &notificationdomain.Notification{
		ID:       s.genID.Generate(),
		TenantID: restaurant.ID,
		Type:     notificationdomain.TypePaymentReceived,
		Title:    "Payment received",
		Message: fmt.Sprintf(
			"Your %s plan is active until %s.",
			plandomain.DisplayName(update.Plan), newExpiry.Format("2 Jan 2006"),
		),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		// The subscription write already landed; a missing notification
		// is not worth failing the payment for.
		s.log.Warn("payment notification create failed",
			zap.Int64("tenant_id", int64(tenantID)),
			zap.Error(err),
		)
	}

	return &domain.ReconcileResponse{
		Plan:         update.Plan,
		BillingCycle: update.Cycle,
		StartedAt:    update.StartedAt,
		ExpiresAt:    update.ExpiresAt,
	}, nil
}
