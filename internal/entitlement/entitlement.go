// Package entitlement decides whether a tenant's plan permits an action.
// It is pure: callers supply the current usage count, nothing is read or
// written here.
package entitlement

import (
	"errors"
	"fmt"

	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
)

var (
	ErrQuotaExceeded   = errors.New("quota_exceeded")
	ErrFeatureDisabled = errors.New("feature_disabled")
)

// Action is a request to create or attach one more resource. CurrentCount
// is the tenant's live count of that resource before the action.
type Action interface {
	isAction()
}

type CreateMenu struct{ CurrentCount int }
type CreateCategory struct{ CurrentCount int }
type CreateDish struct{ CurrentCount int }
type UploadImage struct{ CurrentCount int }

func (CreateMenu) isAction()     {}
func (CreateCategory) isAction() {}
func (CreateDish) isAction()     {}
func (UploadImage) isAction()    {}

// Decision is the outcome of a check. Reason is user-facing and only set
// on denial; Err classifies the denial for transport mapping.
type Decision struct {
	Allowed bool
	Reason  string
	Err     error
}

// DeniedError carries a denial across service boundaries. It unwraps to
// the Decision's classification error so callers can match with errors.Is.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string { return e.Decision.Reason }

func (e *DeniedError) Unwrap() error { return e.Decision.Err }

// Deny converts a denied Decision into an error, nil when allowed.
func Deny(decision Decision) error {
	if decision.Allowed {
		return nil
	}
	return &DeniedError{Decision: decision}
}

func allow() Decision {
	return Decision{Allowed: true}
}

func denyQuota(reason string) Decision {
	return Decision{Reason: reason, Err: ErrQuotaExceeded}
}

func denyFeature(reason string) Decision {
	return Decision{Reason: reason, Err: ErrFeatureDisabled}
}

// Check evaluates one action against a plan. A nil limit never denies.
// For image uploads the plan's image switch is checked before any quota,
// so a plan without images reports the feature gate even at count zero.
func Check(plan plandomain.PlanCode, action Action) Decision {
	limits := plandomain.Limits(plan)

	switch a := action.(type) {
	case CreateMenu:
		if limits.MaxMenus != nil && a.CurrentCount >= *limits.MaxMenus {
			return denyQuota(fmt.Sprintf(
				"Your %s plan allows only %d menu(s). Upgrade to create more.",
				plan, *limits.MaxMenus,
			))
		}
	case CreateCategory:
		if limits.MaxCategories != nil && a.CurrentCount >= *limits.MaxCategories {
			return denyQuota(fmt.Sprintf(
				"Your %s plan allows only %d categories. Upgrade to create more.",
				plan, *limits.MaxCategories,
			))
		}
	case CreateDish:
		if limits.MaxDishes != nil && a.CurrentCount >= *limits.MaxDishes {
			return denyQuota(fmt.Sprintf(
				"Your %s plan allows only %d dishes. Upgrade to create more.",
				plan, *limits.MaxDishes,
			))
		}
	case UploadImage:
		if !limits.AllowImages {
			return denyFeature(fmt.Sprintf(
				"Image uploads are not available on the %s plan. Upgrade to add dish photos.",
				plan,
			))
		}
		if limits.MaxImages != nil && a.CurrentCount >= *limits.MaxImages {
			return denyQuota(fmt.Sprintf(
				"Your %s plan allows only %d images. Upgrade to add more.",
				plan, *limits.MaxImages,
			))
		}
	}

	return allow()
}
