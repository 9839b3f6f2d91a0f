package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"backend_minutas/models"
)

// BillingScheduler рассылает напоминания о биллинге по расписанию:
// об истекающем пробном периоде и о подписках, ожидающих оплаты.
// Планировщик никогда не меняет состояние подписок и платежей.
type BillingScheduler struct {
	db               *gorm.DB
	notifications    *NotificationService
	cron             *cron.Cron
	schedule         string
	trialWarningDays int
}

// NewBillingScheduler создает новый экземпляр BillingScheduler
func NewBillingScheduler(db *gorm.DB, notifications *NotificationService, schedule string, trialWarningDays int) *BillingScheduler {
	return &BillingScheduler{
		db:               db,
		notifications:    notifications,
		cron:             cron.New(),
		schedule:         schedule,
		trialWarningDays: trialWarningDays,
	}
}

// Start запускает планировщик напоминаний
func (bs *BillingScheduler) Start() error {
	if _, err := bs.cron.AddFunc(bs.schedule, bs.RunReminders); err != nil {
		return fmt.Errorf("failed to add reminder job: %w", err)
	}

	bs.cron.Start()
	log.Println("Billing reminder scheduler started")
	return nil
}

// Stop останавливает планировщик напоминаний
func (bs *BillingScheduler) Stop() {
	bs.cron.Stop()
	log.Println("Billing reminder scheduler stopped")
}

// RunReminders выполняет один проход рассылки напоминаний
func (bs *BillingScheduler) RunReminders() {
	now := time.Now()
	bs.remindExpiringTrials(now)
	bs.remindPastDueSubscriptions()
}

// remindExpiringTrials напоминает одобренным компаниям без подписки о
// скором истечении пробного периода
func (bs *BillingScheduler) remindExpiringTrials(now time.Time) {
	var companies []models.Company
	err := bs.db.Where("approval_status = ?", models.CompanyApprovalApproved).
		Where("id NOT IN (?)", bs.db.Model(&models.Subscription{}).Select("company_id")).
		Find(&companies).Error
	if err != nil {
		log.Printf("Предупреждение: ошибка выборки компаний для напоминаний: %v", err)
		return
	}

	sent := 0
	for i := range companies {
		trial := CompanyTrialStatus(&companies[i], now)
		if trial.Expired || trial.RemainingDays > bs.trialWarningDays {
			continue
		}
		bs.notifications.NotifyTrialExpiring(&companies[i], trial.RemainingDays)
		sent++
	}

	if sent > 0 {
		log.Printf("Отправлено %d напоминаний об истечении пробного периода", sent)
	}
}

// remindPastDueSubscriptions напоминает об оплате компаниям, у которых
// подписка past_due и нет платежа, ожидающего проверки
func (bs *BillingScheduler) remindPastDueSubscriptions() {
	var subscriptions []models.Subscription
	err := bs.db.Preload("Company").
		Where("status = ?", models.SubscriptionStatusPastDue).
		Where("id NOT IN (?)", bs.db.Model(&models.Payment{}).Select("subscription_id").
			Where("status = ?", models.PaymentStatusPending)).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Предупреждение: ошибка выборки подписок для напоминаний: %v", err)
		return
	}

	for i := range subscriptions {
		bs.notifications.NotifyPastDueReminder(&subscriptions[i].Company, &subscriptions[i])
	}

	if len(subscriptions) > 0 {
		log.Printf("Отправлено %d напоминаний об оплате подписки", len(subscriptions))
	}
}
