package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/getmenuly/menuly/internal/payment/domain"
)

type createOrderRequest struct {
	PlanID string `json:"plan_id"`
}

type verifyPaymentRequest struct {
	PlanID            string `json:"plan_id"`
	Mode              string `json:"mode"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (s *Server) CreateRazorpayOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.CreateOrder(c.Request.Context(), strings.TrimSpace(req.PlanID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) VerifyRazorpayPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.Reconcile(c.Request.Context(), paymentdomain.ReconcileRequest{
		PlanID:            strings.TrimSpace(req.PlanID),
		Mode:              paymentdomain.Mode(strings.TrimSpace(req.Mode)),
		RazorpayOrderID:   strings.TrimSpace(req.RazorpayOrderID),
		RazorpayPaymentID: strings.TrimSpace(req.RazorpayPaymentID),
		RazorpaySignature: strings.TrimSpace(req.RazorpaySignature),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
