package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimitsCoversEveryPlan(t *testing.T) {
	for _, code := range Codes() {
		if _, ok := catalog[code]; !ok {
			t.Fatalf("plan %s missing from catalog", code)
		}
	}
}

func TestLimitsUnknownCodeFallsBackToFree(t *testing.T) {
	got := Limits(PlanCode("gold"))
	require.Equal(t, Limits(PlanFree), got)
	require.False(t, got.AllowImages)
}

func TestCatalogValues(t *testing.T) {
	free := Limits(PlanFree)
	require.Equal(t, 1, *free.MaxMenus)
	require.Equal(t, 3, *free.MaxCategories)
	require.Equal(t, 10, *free.MaxDishes)
	require.Equal(t, 0, *free.MaxImages)
	require.False(t, free.AllowImages)

	basic := Limits(PlanBasic)
	require.Equal(t, 1, *basic.MaxMenus)
	require.Equal(t, 10, *basic.MaxCategories)
	require.Equal(t, 50, *basic.MaxDishes)
	require.Equal(t, 50, *basic.MaxImages)
	require.True(t, basic.AllowImages)
	require.True(t, basic.RemoveWatermark)
	require.False(t, basic.CustomBranding)

	pro := Limits(PlanPro)
	require.Nil(t, pro.MaxMenus)
	require.Nil(t, pro.MaxCategories)
	require.Nil(t, pro.MaxDishes)
	require.Equal(t, 300, *pro.MaxImages)
	require.True(t, pro.Analytics)
	require.False(t, pro.WhiteLabel)

	enterprise := Limits(PlanEnterprise)
	require.Nil(t, enterprise.MaxImages)
	require.True(t, enterprise.MultipleBranches)
	require.True(t, enterprise.CustomDomain)
	require.True(t, enterprise.WhiteLabel)
}

func TestParsePlanCode(t *testing.T) {
	code, ok := ParsePlanCode("  Basic ")
	require.True(t, ok)
	require.Equal(t, PlanBasic, code)

	_, ok = ParsePlanCode("platinum")
	require.False(t, ok)
}

func TestDurationDays(t *testing.T) {
	require.Equal(t, 30, DurationDays(CycleMonthly))
	require.Equal(t, 365, DurationDays(CycleYearly))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Free", DisplayName(PlanFree))
	require.Equal(t, "Enterprise", DisplayName(PlanEnterprise))
	require.Equal(t, "", DisplayName(PlanCode("")))
}
