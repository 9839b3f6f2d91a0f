package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backend_minutas/config"
	"backend_minutas/models"
	"backend_minutas/testutils"
)

func setupSchedulerTest(t *testing.T) (*gorm.DB, *BillingScheduler) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	notifications := NewNotificationService(db, config.SMTPConfig{Enabled: false}, "", nil)
	scheduler := NewBillingScheduler(db, notifications, "0 9 * * *", 3)
	return db, scheduler
}

func notificationCount(db *gorm.DB, notificationType string) int64 {
	var count int64
	db.Model(&models.NotificationLog{}).Where("type = ?", notificationType).Count(&count)
	return count
}

func TestRunReminders_TrialExpiringSoon(t *testing.T) {
	db, scheduler := setupSchedulerTest(t)

	// Пробный период истекает через 2 дня — в окне предупреждения
	company := testutils.CreateTestCompany(db)
	require.NoError(t, db.Model(company).Update("created_at", time.Now().AddDate(0, 0, -12)).Error)

	scheduler.RunReminders()

	assert.EqualValues(t, 1, notificationCount(db, models.NotificationTypeTrialExpiring))
}

func TestRunReminders_FreshTrialNotReminded(t *testing.T) {
	db, scheduler := setupSchedulerTest(t)

	testutils.CreateTestCompany(db)

	scheduler.RunReminders()

	assert.EqualValues(t, 0, notificationCount(db, models.NotificationTypeTrialExpiring))
}

func TestRunReminders_CompanyWithSubscriptionSkipped(t *testing.T) {
	db, scheduler := setupSchedulerTest(t)

	company := testutils.CreateTestCompany(db)
	require.NoError(t, db.Model(company).Update("created_at", time.Now().AddDate(0, 0, -12)).Error)
	plan := testutils.CreateTestPlan(db, models.BillingCycleMonthly)
	testutils.CreateTestSubscription(db, company.ID, plan.ID,
		models.SubscriptionStatusActive, time.Now(), time.Now().AddDate(0, 1, 0))

	scheduler.RunReminders()

	assert.EqualValues(t, 0, notificationCount(db, models.NotificationTypeTrialExpiring))
}

func TestRunReminders_PastDueWithoutPendingPayment(t *testing.T) {
	db, scheduler := setupSchedulerTest(t)

	company := testutils.CreateTestCompany(db)
	plan := testutils.CreateTestPlan(db, models.BillingCycleMonthly)
	subscription := testutils.CreateTestSubscription(db, company.ID, plan.ID,
		models.SubscriptionStatusPastDue, time.Now(), time.Now())

	scheduler.RunReminders()
	assert.EqualValues(t, 1, notificationCount(db, models.NotificationTypePastDueReminder))

	// Напоминание никогда не меняет состояние подписки
	var updated models.Subscription
	require.NoError(t, db.First(&updated, subscription.ID).Error)
	assert.Equal(t, models.SubscriptionStatusPastDue, updated.Status)
}

func TestRunReminders_PendingPaymentSilencesReminder(t *testing.T) {
	db, scheduler := setupSchedulerTest(t)

	company := testutils.CreateTestCompany(db)
	plan := testutils.CreateTestPlan(db, models.BillingCycleMonthly)
	subscription := testutils.CreateTestSubscription(db, company.ID, plan.ID,
		models.SubscriptionStatusPastDue, time.Now(), time.Now())
	require.NoError(t, db.Create(&models.Payment{
		SubscriptionID: subscription.ID,
		Amount:         plan.Price,
		Method:         models.PaymentMethodTransfer,
		ProofURL:       "/uploads/proof.pdf",
		Status:         models.PaymentStatusPending,
	}).Error)

	scheduler.RunReminders()

	assert.EqualValues(t, 0, notificationCount(db, models.NotificationTypePastDueReminder))
}
