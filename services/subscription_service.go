package services

import (
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"backend_minutas/models"
)

// Решения администратора по платежу
const (
	ReviewDecisionApprove = "approve"
	ReviewDecisionReject  = "reject"
)

// SubscriptionService реализует жизненный цикл подписки и платежей:
// выбор плана, заявление платежа и его проверку администратором.
type SubscriptionService struct {
	db            *gorm.DB
	storage       BlobStorage
	notifications *NotificationService
	guard         *ReviewGuard
}

// NewSubscriptionService создает новый экземпляр SubscriptionService
func NewSubscriptionService(db *gorm.DB, storage BlobStorage, notifications *NotificationService) *SubscriptionService {
	return &SubscriptionService{
		db:            db,
		storage:       storage,
		notifications: notifications,
		guard:         NewReviewGuard(),
	}
}

// GetCompanySubscription возвращает текущую подписку компании или nil,
// если компания еще на пробном периоде
func (ss *SubscriptionService) GetCompanySubscription(companyID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	err := ss.db.Preload("Plan").Where("company_id = ?", companyID).First(&subscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewInfrastructureError("получение подписки", err)
	}
	return &subscription, nil
}

// SelectPlan привязывает компанию к тарифному плану. Если подписки нет,
// создается новая со статусом past_due и start_date = end_date = now, то есть
// уже "истекшая" — до одобрения платежа доступны только страницы биллинга.
// Если подписка есть, план обновляется и статус принудительно возвращается в
// past_due: смена плана всегда требует повторного одобрения и никогда не
// реактивирует старую end_date.
func (ss *SubscriptionService) SelectPlan(companyID, planID uint, now time.Time) (*models.Subscription, error) {
	var plan models.Plan
	if err := ss.db.Where("id = ? AND is_active = ?", planID, true).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("тарифный план", planID)
		}
		return nil, NewInfrastructureError("получение тарифного плана", err)
	}

	var subscription models.Subscription
	err := ss.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("company_id = ?", companyID).First(&subscription).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			subscription = models.Subscription{
				CompanyID: companyID,
				PlanID:    plan.ID,
				Status:    models.SubscriptionStatusPastDue,
				StartDate: now,
				EndDate:   now,
			}
			if err := tx.Create(&subscription).Error; err != nil {
				return NewInfrastructureError("создание подписки", err)
			}
			return nil
		case err != nil:
			return NewInfrastructureError("получение подписки", err)
		}

		// Смена плана: past_due до нового одобрения
		updates := map[string]interface{}{
			"plan_id": plan.ID,
			"status":  models.SubscriptionStatusPastDue,
		}
		if err := tx.Model(&subscription).Updates(updates).Error; err != nil {
			return NewInfrastructureError("обновление подписки", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	subscription.Plan = plan
	return &subscription, nil
}

// ReportPayment регистрирует заявленный вручную платеж: сохраняет файл
// подтверждения в хранилище и добавляет запись платежа со статусом pending.
// Статус подписки не меняется (она уже past_due после SelectPlan).
// Повторная отправка при частичном выполнении безопасна: пока по подписке
// есть pending-платеж, новая запись не создается.
func (ss *SubscriptionService) ReportPayment(subscriptionID uint, amount decimal.Decimal, method, proofName string, proof io.Reader) (*models.Payment, error) {
	if proof == nil {
		return nil, NewValidationError("файл подтверждения платежа обязателен")
	}
	if !amount.IsPositive() {
		return nil, NewValidationError("сумма платежа должна быть положительной")
	}
	switch method {
	case models.PaymentMethodTransfer, models.PaymentMethodCash, models.PaymentMethodCheck:
	default:
		return nil, NewValidationError("неизвестный способ оплаты: %s", method)
	}

	var subscription models.Subscription
	if err := ss.db.Preload("Company").Where("id = ?", subscriptionID).First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("подписка", subscriptionID)
		}
		return nil, NewInfrastructureError("получение подписки", err)
	}

	// Загружаем подтверждение до вставки строки платежа: при сбое между
	// шагами повторная отправка не создаст дубликат из-за проверки ниже
	handle, err := ss.storage.Save(proofName, proof)
	if err != nil {
		return nil, NewInfrastructureError("загрузка файла подтверждения", err)
	}
	proofURL := ss.storage.PublicURL(handle)

	payment := models.Payment{
		SubscriptionID: subscription.ID,
		Amount:         amount,
		Currency:       subscription.Company.Currency,
		Method:         method,
		ProofURL:       proofURL,
		Status:         models.PaymentStatusPending,
	}

	err = ss.db.Transaction(func(tx *gorm.DB) error {
		// Инвариант: не более одного pending-платежа на подписку
		var pendingCount int64
		if err := tx.Model(&models.Payment{}).
			Where("subscription_id = ? AND status = ?", subscription.ID, models.PaymentStatusPending).
			Count(&pendingCount).Error; err != nil {
			return NewInfrastructureError("проверка ожидающих платежей", err)
		}
		if pendingCount > 0 {
			return NewConflictError("по подписке уже есть платеж, ожидающий проверки")
		}

		if err := tx.Create(&payment).Error; err != nil {
			return NewInfrastructureError("создание платежа", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Уведомляем администратора платформы; сбой уведомления не должен
	// провалить регистрацию платежа
	if ss.notifications != nil {
		ss.notifications.NotifyAdminPaymentReported(&payment, &subscription.Company)
	}

	return &payment, nil
}

// ReviewPayment обрабатывает решение администратора по pending-платежу.
// При одобрении подписка переводится в active с start_date = now и
// end_date = now + период тарификации плана, до или атомарно с пометкой
// платежа: сбой между шагами восстанавливается повторным запуском проверки
// по все еще pending-платежу. При отклонении подписка не трогается.
// Платеж, который уже не pending, дает ConflictError без каких-либо записей.
func (ss *SubscriptionService) ReviewPayment(paymentID uint, decision string, reviewerID uint, now time.Time) (*models.Payment, error) {
	switch decision {
	case ReviewDecisionApprove, ReviewDecisionReject:
	default:
		return nil, NewValidationError("неизвестное решение: %s", decision)
	}

	// Клиентская защита от параллельной проверки того же платежа
	if !ss.guard.Acquire(paymentID) {
		return nil, NewConflictError("проверка платежа %d уже выполняется", paymentID)
	}
	defer ss.guard.Release(paymentID)

	var payment models.Payment
	err := ss.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Subscription").Preload("Subscription.Plan").
			Where("id = ?", paymentID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("платеж", paymentID)
			}
			return NewInfrastructureError("получение платежа", err)
		}

		if !payment.IsPending() {
			return NewConflictError("платеж %d уже обработан (статус %s)", paymentID, payment.Status)
		}

		newStatus := models.PaymentStatusRejected
		if decision == ReviewDecisionApprove {
			newStatus = models.PaymentStatusApproved

			// Семантика "сбросить, а не продлить": даты считаются от
			// момента одобрения без учета остатка старого периода
			endDate := payment.Subscription.Plan.PeriodEnd(now)
			result := tx.Model(&models.Subscription{}).
				Where("id = ? AND status = ?", payment.SubscriptionID, models.SubscriptionStatusPastDue).
				Updates(map[string]interface{}{
					"status":     models.SubscriptionStatusActive,
					"start_date": now,
					"end_date":   endDate,
				})
			if result.Error != nil {
				return NewInfrastructureError("активация подписки", result.Error)
			}
			// Условное обновление: если подписка уже не past_due, ее
			// перезаписывать нельзя (гонка с другим администратором)
			if result.RowsAffected == 0 {
				return NewConflictError("подписка %d уже не ожидает оплаты", payment.SubscriptionID)
			}
		}

		result := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":      newStatus,
				"reviewed_at": now,
				"reviewed_by": reviewerID,
			})
		if result.Error != nil {
			return NewInfrastructureError("обновление платежа", result.Error)
		}
		if result.RowsAffected == 0 {
			return NewConflictError("платеж %d уже обработан", paymentID)
		}

		payment.Status = newStatus
		payment.ReviewedAt = &now
		payment.ReviewedBy = &reviewerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Уведомляем компанию о результате; сбой уведомления не откатывает
	// смену статуса
	if ss.notifications != nil {
		var company models.Company
		if err := ss.db.Where("id = ?", payment.Subscription.CompanyID).First(&company).Error; err == nil {
			ss.notifications.NotifyPaymentReviewed(&payment, &company, decision == ReviewDecisionApprove)
		}
	}

	return &payment, nil
}
