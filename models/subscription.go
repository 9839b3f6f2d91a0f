package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Статусы подписки. Отсутствие строки подписки означает пробный период.
const (
	SubscriptionStatusPastDue = "past_due"
	SubscriptionStatusActive  = "active"
)

// Статусы платежа. Переходы pending -> approved и pending -> rejected
// односторонние: решенный платеж никогда не пересматривается.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// Способы оплаты
const (
	PaymentMethodTransfer = "transfer"
	PaymentMethodCash     = "cash"
	PaymentMethodCheck    = "check"
)

// Subscription представляет подписку компании на тарифный план.
// У компании может быть не более одной текущей подписки: обновления
// перезаписывают строку на месте, история не ведется.
type Subscription struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Связи
	CompanyID uint    `json:"company_id" gorm:"not null;uniqueIndex"`
	PlanID    uint    `json:"plan_id" gorm:"not null"`
	Plan      Plan    `json:"plan" gorm:"foreignKey:PlanID"`
	Company   Company `json:"company" gorm:"foreignKey:CompanyID"`

	// Период подписки
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`

	// Статус подписки
	Status string `json:"status" gorm:"default:'past_due';type:varchar(20)"` // past_due, active
}

// TableName задает имя таблицы для модели Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActive проверяет, активна ли подписка
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// Payment представляет заявленный вручную платеж по подписке.
// Журнал платежей только пополняется, записи не удаляются.
type Payment struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Связи
	SubscriptionID uint         `json:"subscription_id" gorm:"not null;index"`
	Subscription   Subscription `json:"subscription" gorm:"foreignKey:SubscriptionID"`

	// Данные платежа
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency string          `json:"currency" gorm:"default:'RUB';type:varchar(3)"`
	Method   string          `json:"method" gorm:"not null;type:varchar(20)"` // transfer, cash, check
	ProofURL string          `json:"proof_url" gorm:"not null;type:varchar(500)"`

	// Статус проверки
	Status     string     `json:"status" gorm:"default:'pending';type:varchar(20)"` // pending, approved, rejected
	ReviewedAt *time.Time `json:"reviewed_at"`
	ReviewedBy *uint      `json:"reviewed_by"` // ID администратора платформы
}

// TableName задает имя таблицы для модели Payment
func (Payment) TableName() string {
	return "payments"
}

// IsPending проверяет, ожидает ли платеж проверки
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}
