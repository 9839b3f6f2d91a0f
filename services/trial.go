package services

import (
	"time"

	"backend_minutas/models"
)

// TrialStatus содержит состояние пробного периода компании
type TrialStatus struct {
	RemainingDays int  `json:"remaining_days"`
	Expired       bool `json:"expired"`
}

const millisPerDay = 24 * 60 * 60 * 1000

// CalculateTrialStatus вычисляет состояние пробного периода. Чистая функция
// без побочных эффектов. Остаток считается округлением вверх миллисекундной
// разницы до целых дней, чтобы пробный период, созданный в 23:59, не считался
// истекшим минутой позже из-за дробного округления не в ту сторону.
func CalculateTrialStatus(createdAt time.Time, trialDays int, now time.Time) TrialStatus {
	if trialDays <= 0 {
		trialDays = models.DefaultTrialDays
	}

	deadline := createdAt.AddDate(0, 0, trialDays)
	diffMillis := deadline.Sub(now).Milliseconds()

	// Округление вверх: неполный день в запасе считается целым днем
	remaining := int(diffMillis / millisPerDay)
	if diffMillis > 0 && diffMillis%millisPerDay != 0 {
		remaining++
	}

	expired := remaining <= 0

	// Для отображения отрицательный остаток обрезается до нуля
	if remaining < 0 {
		remaining = 0
	}

	return TrialStatus{RemainingDays: remaining, Expired: expired}
}

// CompanyTrialStatus вычисляет состояние пробного периода по записи компании
func CompanyTrialStatus(company *models.Company, now time.Time) TrialStatus {
	return CalculateTrialStatus(company.CreatedAt, company.EffectiveTrialDays(), now)
}
