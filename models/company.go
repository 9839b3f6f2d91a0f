package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы одобрения компании платформой
const (
	CompanyApprovalPending  = "pending"
	CompanyApprovalApproved = "approved"
	CompanyApprovalRejected = "rejected"
)

// DefaultTrialDays определяет длительность пробного периода по умолчанию
const DefaultTrialDays = 14

// Company представляет компанию (tenant) в мультитенантной системе
type Company struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Основные поля компании
	Name string `json:"name" gorm:"not null;type:varchar(100)"`
	INN  string `json:"inn" gorm:"uniqueIndex;type:varchar(20)"` // ИНН компании

	// Статус одобрения и пробный период
	ApprovalStatus string `json:"approval_status" gorm:"default:'pending';type:varchar(20)"` // pending, approved, rejected
	TrialDays      int    `json:"trial_days" gorm:"default:14"`                              // Настраивается администратором для каждой компании

	// Контактная информация
	ContactEmail  string `json:"contact_email" gorm:"type:varchar(100)"`
	ContactPhone  string `json:"contact_phone" gorm:"type:varchar(20)"`
	ContactPerson string `json:"contact_person" gorm:"type:varchar(100)"`

	// Адрес
	Address string `json:"address" gorm:"type:text"`
	City    string `json:"city" gorm:"type:varchar(100)"`
	Country string `json:"country" gorm:"default:'Russia';type:varchar(100)"`

	// Настройки локализации
	Language string `json:"language" gorm:"default:'ru';type:varchar(5)"`
	Timezone string `json:"timezone" gorm:"default:'Europe/Moscow';type:varchar(50)"`
	Currency string `json:"currency" gorm:"default:'RUB';type:varchar(3)"`
}

// TableName задает имя таблицы для модели Company
func (Company) TableName() string {
	return "companies"
}

// BeforeCreate вызывается перед созданием записи
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ApprovalStatus == "" {
		c.ApprovalStatus = CompanyApprovalPending
	}
	if c.TrialDays == 0 {
		c.TrialDays = DefaultTrialDays
	}
	return nil
}

// IsApproved проверяет, одобрена ли компания платформой
func (c *Company) IsApproved() bool {
	return c.ApprovalStatus == CompanyApprovalApproved
}

// EffectiveTrialDays возвращает длительность пробного периода с учетом значения по умолчанию
func (c *Company) EffectiveTrialDays() int {
	if c.TrialDays <= 0 {
		return DefaultTrialDays
	}
	return c.TrialDays
}
