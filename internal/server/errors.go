package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/getmenuly/menuly/internal/auth/domain"
	categorydomain "github.com/getmenuly/menuly/internal/category/domain"
	dishdomain "github.com/getmenuly/menuly/internal/dish/domain"
	"github.com/getmenuly/menuly/internal/entitlement"
	mediadomain "github.com/getmenuly/menuly/internal/media/domain"
	menudomain "github.com/getmenuly/menuly/internal/menu/domain"
	notificationdomain "github.com/getmenuly/menuly/internal/notification/domain"
	paymentdomain "github.com/getmenuly/menuly/internal/payment/domain"
	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	subscriptiondomain "github.com/getmenuly/menuly/internal/subscription/domain"
	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
)

type errorPayload struct {
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	FailedKeys []string `json:"failed_keys,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts the last gin error into the JSON error
// envelope unless a handler already wrote a response.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	// Plan denials surface their human-readable reason untouched so the
	// UI can show the upgrade prompt verbatim.
	var denied *entitlement.DeniedError
	if errors.As(err, &denied) {
		payloadType := "quota_exceeded"
		if errors.Is(err, entitlement.ErrFeatureDisabled) {
			payloadType = "feature_disabled"
		}
		return http.StatusForbidden, errorPayload{
			Type:    payloadType,
			Message: denied.Decision.Reason,
		}
	}

	var inconsistency *mediadomain.StorageInconsistencyError
	if errors.As(err, &inconsistency) {
		return http.StatusBadGateway, errorPayload{
			Type:       "storage_inconsistency",
			Message:    "object storage rejected part of the delete",
			FailedKeys: inconsistency.FailedKeys(),
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, authdomain.ErrSlugTaken),
		errors.Is(err, menudomain.ErrNotEmpty),
		errors.Is(err, categorydomain.ErrStillActive):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, paymentdomain.ErrVerificationFailed):
		return http.StatusBadRequest, errorPayload{
			Type:    "verification_failed",
			Message: "payment verification failed",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, menudomain.ErrNotFound),
		errors.Is(err, categorydomain.ErrNotFound),
		errors.Is(err, dishdomain.ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, notificationdomain.ErrNotFound),
		errors.Is(err, mediadomain.ErrTenantNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidSignup),
		errors.Is(err, tenantdomain.ErrInvalidName),
		errors.Is(err, menudomain.ErrInvalidID),
		errors.Is(err, menudomain.ErrInvalidName),
		errors.Is(err, categorydomain.ErrInvalidID),
		errors.Is(err, categorydomain.ErrInvalidName),
		errors.Is(err, categorydomain.ErrInvalidMenu),
		errors.Is(err, categorydomain.ErrInvalidReorder),
		errors.Is(err, dishdomain.ErrInvalidID),
		errors.Is(err, dishdomain.ErrInvalidName),
		errors.Is(err, dishdomain.ErrInvalidPrice),
		errors.Is(err, dishdomain.ErrInvalidCategory),
		errors.Is(err, mediadomain.ErrInvalidFilename),
		errors.Is(err, notificationdomain.ErrInvalidID),
		errors.Is(err, plandomain.ErrInvalidID),
		errors.Is(err, plandomain.ErrInvalidPlan),
		errors.Is(err, plandomain.ErrInvalidCycle),
		errors.Is(err, paymentdomain.ErrInvalidMode),
		errors.Is(err, paymentdomain.ErrInvalidProof),
		errors.Is(err, subscriptiondomain.ErrInvalidStatus),
		errors.Is(err, subscriptiondomain.ErrInvalidTransition):
		return true
	default:
		return false
	}
}

// classifyErrorForLog labels request-log entries without leaking internals.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "server_error", payload.Type
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "auth_error", payload.Type
	default:
		return "client_error", payload.Type
	}
}
