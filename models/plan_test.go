package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlan_PeriodEnd_Monthly(t *testing.T) {
	plan := &Plan{BillingCycle: BillingCycleMonthly}
	from := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	assert.True(t, plan.PeriodEnd(from).Equal(time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)))
}

func TestPlan_PeriodEnd_Annual(t *testing.T) {
	plan := &Plan{BillingCycle: BillingCycleAnnual}
	from := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, plan.PeriodEnd(from).Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
}

func TestPlan_PeriodEnd_MonthOverflow(t *testing.T) {
	plan := &Plan{BillingCycle: BillingCycleMonthly}
	// 31 января + месяц нормализуется календарем Go
	from := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, plan.PeriodEnd(from).Equal(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)))
}

func TestPlan_IsAnnual(t *testing.T) {
	assert.False(t, (&Plan{BillingCycle: BillingCycleMonthly}).IsAnnual())
	assert.True(t, (&Plan{BillingCycle: BillingCycleAnnual}).IsAnnual())
	assert.False(t, (&Plan{}).IsAnnual())
}
