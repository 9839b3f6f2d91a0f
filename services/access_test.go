package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"backend_minutas/models"
)

func approvedCompany(createdAt time.Time, trialDays int) *models.Company {
	company := &models.Company{
		Name:           "ООО Тест",
		ApprovalStatus: models.CompanyApprovalApproved,
		TrialDays:      trialDays,
	}
	company.CreatedAt = createdAt
	return company
}

func TestResolveAccess_NoCompany(t *testing.T) {
	state := ResolveAccess(nil, nil, time.Now())

	assert.Equal(t, AccessNoCompany, state)
	assert.False(t, state.AllowsFullAccess())
	assert.False(t, state.AllowsBillingAccess())
}

func TestResolveAccess_UnapprovedBeatsEverything(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	company := approvedCompany(now, 14)
	company.ApprovalStatus = models.CompanyApprovalPending

	// Даже активная подписка не дает доступа неодобренной компании
	subscription := &models.Subscription{Status: models.SubscriptionStatusActive}

	assert.Equal(t, AccessUnapproved, ResolveAccess(company, subscription, now))
}

func TestResolveAccess_RejectedCompanyIsUnapproved(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	company := approvedCompany(now, 14)
	company.ApprovalStatus = models.CompanyApprovalRejected

	assert.Equal(t, AccessUnapproved, ResolveAccess(company, nil, now))
}

func TestResolveAccess_ActiveSubscriptionBeatsExpiredTrial(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Пробный период давно истек, но подписка оплачена
	company := approvedCompany(now.AddDate(0, -3, 0), 14)
	subscription := &models.Subscription{Status: models.SubscriptionStatusActive}

	state := ResolveAccess(company, subscription, now)

	assert.Equal(t, AccessActive, state)
	assert.True(t, state.AllowsFullAccess())
}

func TestResolveAccess_PastDueBeatsRunningTrial(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Пробный период формально не истек, но компания уже выбрала план
	company := approvedCompany(now.AddDate(0, 0, -2), 14)
	subscription := &models.Subscription{Status: models.SubscriptionStatusPastDue}

	state := ResolveAccess(company, subscription, now)

	assert.Equal(t, AccessPastDue, state)
	assert.False(t, state.AllowsFullAccess())
	assert.True(t, state.AllowsBillingAccess())
}

func TestResolveAccess_TrialingWithoutSubscription(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	company := approvedCompany(now.AddDate(0, 0, -5), 14)

	state := ResolveAccess(company, nil, now)

	assert.Equal(t, AccessTrialing, state)
	assert.True(t, state.AllowsFullAccess())
}

func TestResolveAccess_TrialExpiredWithoutSubscription(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	company := approvedCompany(now.AddDate(0, 0, -20), 14)

	state := ResolveAccess(company, nil, now)

	assert.Equal(t, AccessTrialExpired, state)
	assert.False(t, state.AllowsFullAccess())
	assert.True(t, state.AllowsBillingAccess())
}

func TestResolveAccess_LifecycleScenario(t *testing.T) {
	// Регистрация -> одобрение -> пробный период -> истечение ->
	// выбор плана -> одобрение платежа
	registeredAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	company := approvedCompany(registeredAt, 14)
	company.ApprovalStatus = models.CompanyApprovalPending

	assert.Equal(t, AccessUnapproved, ResolveAccess(company, nil, registeredAt))

	company.ApprovalStatus = models.CompanyApprovalApproved
	assert.Equal(t, AccessTrialing, ResolveAccess(company, nil, registeredAt.AddDate(0, 0, 3)))

	afterTrial := registeredAt.AddDate(0, 0, 20)
	assert.Equal(t, AccessTrialExpired, ResolveAccess(company, nil, afterTrial))

	subscription := &models.Subscription{Status: models.SubscriptionStatusPastDue}
	assert.Equal(t, AccessPastDue, ResolveAccess(company, subscription, afterTrial))

	subscription.Status = models.SubscriptionStatusActive
	assert.Equal(t, AccessActive, ResolveAccess(company, subscription, afterTrial))
}
