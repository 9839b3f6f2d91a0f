package services

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backend_minutas/models"
	"backend_minutas/testutils"
)

// fakeBlobStorage подменяет хранилище файлов в тестах
type fakeBlobStorage struct {
	saved []string
	fail  bool
}

func (s *fakeBlobStorage) Save(originalName string, r io.Reader) (string, error) {
	if s.fail {
		return "", fmt.Errorf("хранилище недоступно")
	}
	handle := fmt.Sprintf("blob-%d%s", len(s.saved), filepath.Ext(originalName))
	s.saved = append(s.saved, handle)
	return handle, nil
}

func (s *fakeBlobStorage) PublicURL(handle string) string {
	return "/uploads/" + handle
}

func setupSubscriptionTest(t *testing.T) (*gorm.DB, *SubscriptionService, *models.Company, *models.Plan) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	service := NewSubscriptionService(db, &fakeBlobStorage{}, nil)
	company := testutils.CreateTestCompany(db)
	require.NotNil(t, company)
	plan := testutils.CreateTestPlan(db, models.BillingCycleMonthly)
	require.NotNil(t, plan)

	return db, service, company, plan
}

func TestGetCompanySubscription_NoneIsNil(t *testing.T) {
	_, service, company, _ := setupSubscriptionTest(t)

	subscription, err := service.GetCompanySubscription(company.ID)

	require.NoError(t, err)
	assert.Nil(t, subscription)
}

func TestSelectPlan_CreatesPastDueSubscription(t *testing.T) {
	_, service, company, plan := setupSubscriptionTest(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	subscription, err := service.SelectPlan(company.ID, plan.ID, now)

	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, subscription.Status)
	// Новая подписка сразу "истекшая": start_date = end_date = now
	assert.True(t, subscription.StartDate.Equal(now))
	assert.True(t, subscription.EndDate.Equal(now))
	assert.Equal(t, plan.ID, subscription.PlanID)
}

func TestSelectPlan_UnknownPlan(t *testing.T) {
	_, service, company, _ := setupSubscriptionTest(t)

	_, err := service.SelectPlan(company.ID, 999, time.Now())

	assert.True(t, IsNotFoundError(err))
}

func TestSelectPlan_InactivePlanNotSelectable(t *testing.T) {
	db, service, company, plan := setupSubscriptionTest(t)
	require.NoError(t, db.Model(plan).Update("is_active", false).Error)

	_, err := service.SelectPlan(company.ID, plan.ID, time.Now())

	assert.True(t, IsNotFoundError(err))
}

func TestSelectPlan_ChangePlanForcesPastDue(t *testing.T) {
	db, service, company, plan := setupSubscriptionTest(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Компания с активной подпиской меняет план
	testutils.CreateTestSubscription(db, company.ID, plan.ID,
		models.SubscriptionStatusActive, now.AddDate(0, -1, 0), now.AddDate(0, 1, 0))
	annual := testutils.CreateTestPlan(db, models.BillingCycleAnnual)
	require.NotNil(t, annual)

	subscription, err := service.SelectPlan(company.ID, annual.ID, now)

	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, subscription.Status)
	assert.Equal(t, annual.ID, subscription.PlanID)

	// В базе ровно одна подписка: история не ведется
	var count int64
	db.Model(&models.Subscription{}).Where("company_id = ?", company.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func reportTestPayment(t *testing.T, service *SubscriptionService, subscriptionID uint) *models.Payment {
	t.Helper()
	payment, err := service.ReportPayment(subscriptionID, decimal.NewFromInt(4900),
		models.PaymentMethodTransfer, "receipt.pdf", strings.NewReader("proof-bytes"))
	require.NoError(t, err)
	return payment
}

func TestReportPayment_CreatesPendingPayment(t *testing.T) {
	_, service, company, plan := setupSubscriptionTest(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	subscription, err := service.SelectPlan(company.ID, plan.ID, now)
	require.NoError(t, err)

	payment := reportTestPayment(t, service, subscription.ID)

	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, "RUB", payment.Currency)
	assert.NotEmpty(t, payment.ProofURL)
	assert.Nil(t, payment.ReviewedAt)
}

func TestReportPayment_Validation(t *testing.T) {
	_, service, company, plan := setupSubscriptionTest(t)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)

	// Без файла подтверждения
	_, err = service.ReportPayment(subscription.ID, decimal.NewFromInt(100),
		models.PaymentMethodTransfer, "x.pdf", nil)
	assert.True(t, IsValidationError(err))

	// Неположительная сумма
	_, err = service.ReportPayment(subscription.ID, decimal.Zero,
		models.PaymentMethodTransfer, "x.pdf", strings.NewReader("p"))
	assert.True(t, IsValidationError(err))

	// Неизвестный способ оплаты
	_, err = service.ReportPayment(subscription.ID, decimal.NewFromInt(100),
		"crypto", "x.pdf", strings.NewReader("p"))
	assert.True(t, IsValidationError(err))

	// Валидация ничего не записывает
	var count int64
	service.db.Model(&models.Payment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestReportPayment_SecondPendingRejected(t *testing.T) {
	_, service, company, plan := setupSubscriptionTest(t)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)

	reportTestPayment(t, service, subscription.ID)

	_, err = service.ReportPayment(subscription.ID, decimal.NewFromInt(4900),
		models.PaymentMethodCash, "again.jpg", strings.NewReader("p"))
	assert.True(t, IsConflictError(err))

	var count int64
	service.db.Model(&models.Payment{}).Where("subscription_id = ?", subscription.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReviewPayment_ApproveActivatesSubscription(t *testing.T) {
	db, service, company, plan := setupSubscriptionTest(t)
	selectedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviewedAt := time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)

	subscription, err := service.SelectPlan(company.ID, plan.ID, selectedAt)
	require.NoError(t, err)
	payment := reportTestPayment(t, service, subscription.ID)

	reviewed, err := service.ReviewPayment(payment.ID, ReviewDecisionApprove, 1, reviewedAt)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.True(t, reviewed.ReviewedAt.Equal(reviewedAt))
	require.NotNil(t, reviewed.ReviewedBy)
	assert.EqualValues(t, 1, *reviewed.ReviewedBy)

	// Период считается от момента одобрения, не от выбора плана
	var updated models.Subscription
	require.NoError(t, db.First(&updated, subscription.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, updated.Status)
	assert.True(t, updated.StartDate.Equal(reviewedAt))
	assert.True(t, updated.EndDate.Equal(reviewedAt.AddDate(0, 1, 0)))
}

func TestReviewPayment_AnnualPlanPeriod(t *testing.T) {
	db, service, company, _ := setupSubscriptionTest(t)
	annual := testutils.CreateTestPlan(db, models.BillingCycleAnnual)
	require.NotNil(t, annual)

	reviewedAt := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	subscription, err := service.SelectPlan(company.ID, annual.ID, reviewedAt.AddDate(0, 0, -1))
	require.NoError(t, err)
	payment := reportTestPayment(t, service, subscription.ID)

	_, err = service.ReviewPayment(payment.ID, ReviewDecisionApprove, 1, reviewedAt)
	require.NoError(t, err)

	var updated models.Subscription
	require.NoError(t, db.First(&updated, subscription.ID).Error)
	assert.True(t, updated.EndDate.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
}

func TestReviewPayment_RejectLeavesSubscriptionPastDue(t *testing.T) {
	db, service, company, plan := setupSubscriptionTest(t)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)
	payment := reportTestPayment(t, service, subscription.ID)

	reviewed, err := service.ReviewPayment(payment.ID, ReviewDecisionReject, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, reviewed.Status)

	var updated models.Subscription
	require.NoError(t, db.First(&updated, subscription.ID).Error)
	assert.Equal(t, models.SubscriptionStatusPastDue, updated.Status)

	// После отклонения компания может заявить платеж снова
	again := reportTestPayment(t, service, subscription.ID)
	assert.Equal(t, models.PaymentStatusPending, again.Status)
}

func TestReviewPayment_DecidedPaymentIsFinal(t *testing.T) {
	db, service, company, plan := setupSubscriptionTest(t)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)
	payment := reportTestPayment(t, service, subscription.ID)

	firstReviewAt := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	_, err = service.ReviewPayment(payment.ID, ReviewDecisionApprove, 1, firstReviewAt)
	require.NoError(t, err)

	// Повторное решение по тому же платежу — конфликт без записей
	_, err = service.ReviewPayment(payment.ID, ReviewDecisionReject, 2, firstReviewAt.Add(time.Hour))
	assert.True(t, IsConflictError(err))

	var updated models.Subscription
	require.NoError(t, db.First(&updated, subscription.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, updated.Status)
	assert.True(t, updated.EndDate.Equal(firstReviewAt.AddDate(0, 1, 0)), "end_date не должен измениться")

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusApproved, storedPayment.Status)
	require.NotNil(t, storedPayment.ReviewedBy)
	assert.EqualValues(t, 1, *storedPayment.ReviewedBy)
}

func TestReviewPayment_DoubleRejectConflicts(t *testing.T) {
	_, service, company, plan := setupSubscriptionTest(t)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)
	payment := reportTestPayment(t, service, subscription.ID)

	_, err = service.ReviewPayment(payment.ID, ReviewDecisionReject, 1, time.Now())
	require.NoError(t, err)

	_, err = service.ReviewPayment(payment.ID, ReviewDecisionReject, 1, time.Now())
	assert.True(t, IsConflictError(err))
}

func TestReviewPayment_UnknownDecisionAndPayment(t *testing.T) {
	_, service, _, _ := setupSubscriptionTest(t)

	_, err := service.ReviewPayment(1, "maybe", 1, time.Now())
	assert.True(t, IsValidationError(err))

	_, err = service.ReviewPayment(999, ReviewDecisionApprove, 1, time.Now())
	assert.True(t, IsNotFoundError(err))
}

func TestReviewPayment_GuardBlocksConcurrentReview(t *testing.T) {
	_, service, company, plan := setupSubscriptionTest(t)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)
	payment := reportTestPayment(t, service, subscription.ID)

	// Симулируем идущую проверку того же платежа
	require.True(t, service.guard.Acquire(payment.ID))

	_, err = service.ReviewPayment(payment.ID, ReviewDecisionApprove, 1, time.Now())
	assert.True(t, IsConflictError(err))

	service.guard.Release(payment.ID)

	// После освобождения проверка проходит
	_, err = service.ReviewPayment(payment.ID, ReviewDecisionApprove, 1, time.Now())
	assert.NoError(t, err)
}

func TestReportPayment_StorageFailure(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	service := NewSubscriptionService(db, &fakeBlobStorage{fail: true}, nil)
	company := testutils.CreateTestCompany(db)
	plan := testutils.CreateTestPlan(db, models.BillingCycleMonthly)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)

	_, err = service.ReportPayment(subscription.ID, decimal.NewFromInt(100),
		models.PaymentMethodTransfer, "x.pdf", strings.NewReader("p"))
	assert.True(t, IsInfrastructureError(err))

	// Сбой хранилища не оставляет записей платежа
	var count int64
	db.Model(&models.Payment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
