package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend_minutas/config"
	"backend_minutas/models"
	"backend_minutas/testutils"
)

func newTestNotificationService(t *testing.T) *NotificationService {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	// SMTP отключен, Telegram не настроен: все отправки завершатся ошибкой
	return NewNotificationService(db, config.SMTPConfig{Enabled: false}, "admin@platform.example", nil)
}

func TestSend_FailureIsLogged(t *testing.T) {
	service := newTestNotificationService(t)

	err := service.Send(models.NotificationTypeTrialExpiring, models.NotificationChannelEmail,
		"company@example.com", "Тема", "Текст", 1, nil, "company")
	assert.Error(t, err)

	var logEntry models.NotificationLog
	require.NoError(t, service.DB.First(&logEntry).Error)
	assert.Equal(t, "failed", logEntry.Status)
	assert.Equal(t, models.NotificationChannelEmail, logEntry.Channel)
	assert.NotEmpty(t, logEntry.ErrorMessage)
	assert.Nil(t, logEntry.SentAt)
}

func TestSend_UnknownChannel(t *testing.T) {
	service := newTestNotificationService(t)

	err := service.Send(models.NotificationTypeTrialExpiring, "sms",
		"x", "Тема", "Текст", 1, nil, "company")
	assert.Error(t, err)
}

func TestNotifyPaymentReviewed_SwallowsFailure(t *testing.T) {
	service := newTestNotificationService(t)
	company := &models.Company{Name: "ООО Тест", ContactEmail: "owner@example.com"}
	company.ID = 3
	payment := &models.Payment{Amount: decimal.NewFromInt(4900), Currency: "RUB"}
	payment.ID = 7

	// Сбой канала не должен подниматься наружу
	assert.NotPanics(t, func() {
		service.NotifyPaymentReviewed(payment, company, true)
		service.NotifyPaymentReviewed(payment, company, false)
	})

	var count int64
	service.DB.Model(&models.NotificationLog{}).Where("company_id = ?", company.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestReviewPayment_NotificationFailureDoesNotRollBack(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	notifications := NewNotificationService(db, config.SMTPConfig{Enabled: false}, "", nil)
	service := NewSubscriptionService(db, &fakeBlobStorage{}, notifications)

	company := testutils.CreateTestCompany(db)
	plan := testutils.CreateTestPlan(db, models.BillingCycleMonthly)
	subscription, err := service.SelectPlan(company.ID, plan.ID, time.Now())
	require.NoError(t, err)

	payment, err := service.ReportPayment(subscription.ID, decimal.NewFromInt(4900),
		models.PaymentMethodTransfer, "receipt.pdf", strings.NewReader("proof"))
	require.NoError(t, err)

	// Уведомление упадет (каналы не настроены), но решение должно сохраниться
	reviewed, err := service.ReviewPayment(payment.ID, ReviewDecisionApprove, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, reviewed.Status)

	var updated models.Subscription
	require.NoError(t, db.First(&updated, subscription.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, updated.Status)
}
