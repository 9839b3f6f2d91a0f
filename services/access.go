package services

import (
	"time"

	"backend_minutas/models"
)

// AccessState представляет итоговое состояние доступа компании,
// единственный вход для маршрутной защиты приложения.
type AccessState string

const (
	// AccessNoCompany — для сессии не определена компания; вызывающая
	// сторона обязана принудить онбординг, а не давать полный доступ
	AccessNoCompany AccessState = "no_company"
	// AccessUnapproved — компания не одобрена платформой
	AccessUnapproved AccessState = "unapproved"
	// AccessActive — действующая оплаченная подписка, полный доступ
	AccessActive AccessState = "active"
	// AccessPastDue — подписка ждет оплаты или проверки платежа,
	// доступны только страницы биллинга
	AccessPastDue AccessState = "past_due"
	// AccessTrialing — пробный период не истек, полный доступ
	AccessTrialing AccessState = "trialing"
	// AccessTrialExpired — пробный период истек, нужно выбрать план
	AccessTrialExpired AccessState = "trial_expired"
)

// AllowsFullAccess проверяет, дает ли состояние полный доступ к продукту
func (s AccessState) AllowsFullAccess() bool {
	return s == AccessActive || s == AccessTrialing
}

// AllowsBillingAccess проверяет, разрешены ли страницы биллинга и аккаунта
func (s AccessState) AllowsBillingAccess() bool {
	return s != AccessNoCompany
}

// ResolveAccess сводит статус одобрения, пробный период и статус подписки
// в одно авторитетное состояние доступа. Чистая классификация без побочных
// эффектов; правила применяются в строгом порядке приоритета, первое
// совпадение выигрывает:
//  1. компания не определена -> NoCompany
//  2. компания не одобрена -> Unapproved
//  3. подписка активна -> Active (оплаченная подписка всегда важнее
//     устаревших полей пробного периода)
//  4. подписка past_due -> PastDue (неоплаченный платеж сильнее, чем
//     формально не истекший пробный период)
//  5. подписки нет, пробный период не истек -> Trialing
//  6. иначе -> TrialExpired
func ResolveAccess(company *models.Company, subscription *models.Subscription, now time.Time) AccessState {
	if company == nil {
		return AccessNoCompany
	}

	if !company.IsApproved() {
		return AccessUnapproved
	}

	if subscription != nil {
		switch subscription.Status {
		case models.SubscriptionStatusActive:
			return AccessActive
		case models.SubscriptionStatusPastDue:
			return AccessPastDue
		}
	}

	if !CompanyTrialStatus(company, now).Expired {
		return AccessTrialing
	}

	return AccessTrialExpired
}
