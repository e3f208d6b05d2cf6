package entitlement

import (
	"errors"
	"testing"

	plandomain "github.com/getmenuly/menuly/internal/plan/domain"
	"github.com/stretchr/testify/require"
)

func TestNilLimitsAlwaysAllow(t *testing.T) {
	for _, count := range []int{0, 1, 100, 1_000_000} {
		for _, action := range []Action{
			CreateMenu{CurrentCount: count},
			CreateCategory{CurrentCount: count},
			CreateDish{CurrentCount: count},
			UploadImage{CurrentCount: count},
		} {
			decision := Check(plandomain.PlanEnterprise, action)
			if !decision.Allowed {
				t.Fatalf("enterprise denied %T at count %d: %s", action, count, decision.Reason)
			}
		}
	}
}

func TestQuotaBoundary(t *testing.T) {
	// free allows 3 categories: counts 0..2 pass, 3 and above deny.
	for count := 0; count <= 5; count++ {
		decision := Check(plandomain.PlanFree, CreateCategory{CurrentCount: count})
		if count < 3 {
			require.True(t, decision.Allowed, "count %d should pass", count)
			require.Empty(t, decision.Reason)
		} else {
			require.False(t, decision.Allowed, "count %d should deny", count)
			require.ErrorIs(t, decision.Err, ErrQuotaExceeded)
		}
	}
}

func TestDenialReasonNamesPlanAndLimit(t *testing.T) {
	decision := Check(plandomain.PlanBasic, CreateCategory{CurrentCount: 10})
	require.False(t, decision.Allowed)
	require.Equal(t,
		"Your basic plan allows only 10 categories. Upgrade to create more.",
		decision.Reason,
	)
}

func TestFeatureGatePrecedesQuota(t *testing.T) {
	// free has MaxImages 0 and AllowImages false. The feature gate must win
	// even at count zero, where the quota would also deny.
	decision := Check(plandomain.PlanFree, UploadImage{CurrentCount: 0})
	require.False(t, decision.Allowed)
	require.ErrorIs(t, decision.Err, ErrFeatureDisabled)
	require.Equal(t,
		"Image uploads are not available on the free plan. Upgrade to add dish photos.",
		decision.Reason,
	)
}

func TestImageQuotaOnImageCapablePlan(t *testing.T) {
	decision := Check(plandomain.PlanBasic, UploadImage{CurrentCount: 50})
	require.False(t, decision.Allowed)
	require.ErrorIs(t, decision.Err, ErrQuotaExceeded)

	decision = Check(plandomain.PlanBasic, UploadImage{CurrentCount: 49})
	require.True(t, decision.Allowed)
}

func TestMenuLimit(t *testing.T) {
	decision := Check(plandomain.PlanBasic, CreateMenu{CurrentCount: 1})
	require.False(t, decision.Allowed)
	require.Equal(t,
		"Your basic plan allows only 1 menu(s). Upgrade to create more.",
		decision.Reason,
	)

	decision = Check(plandomain.PlanPro, CreateMenu{CurrentCount: 40})
	require.True(t, decision.Allowed)
}

func TestDenialErrorsAreDistinct(t *testing.T) {
	require.False(t, errors.Is(ErrQuotaExceeded, ErrFeatureDisabled))
}
