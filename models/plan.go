package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Периоды тарификации
const (
	BillingCycleMonthly = "monthly"
	BillingCycleAnnual  = "annual"
)

// Plan представляет тарифный план в каталоге
type Plan struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Основные поля тарифного плана
	Name        string          `json:"name" gorm:"not null;type:varchar(100)"`
	Code        string          `json:"code" gorm:"uniqueIndex;not null;type:varchar(50)"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Currency    string          `json:"currency" gorm:"default:'RUB';type:varchar(3)"`

	// Период тарификации
	BillingCycle string `json:"billing_cycle" gorm:"default:'monthly';type:varchar(20)"` // monthly, annual

	// Лимиты и возможности
	MaxUsers    int  `json:"max_users" gorm:"default:0"`    // 0 = безлимитно
	MaxProjects int  `json:"max_projects" gorm:"default:0"` // 0 = безлимитно
	MaxStorage  int  `json:"max_storage" gorm:"default:0"`  // в МБ, 0 = безлимитно
	HasReports  bool `json:"has_reports" gorm:"default:false"`
	HasAPI      bool `json:"has_api" gorm:"default:false"`
	HasSupport  bool `json:"has_support" gorm:"default:false"`

	// Статус и доступность
	IsActive  bool `json:"is_active" gorm:"default:true"`
	IsPopular bool `json:"is_popular" gorm:"default:false"`
}

// TableName задает имя таблицы для модели Plan
func (Plan) TableName() string {
	return "plans"
}

// IsAnnual проверяет, является ли план годовым
func (p *Plan) IsAnnual() bool {
	return p.BillingCycle == BillingCycleAnnual
}

// PeriodEnd возвращает дату окончания оплаченного периода, начиная с from.
// Семантика "сбросить, а не продлить": дата всегда считается от from,
// без учета остатка предыдущего периода.
func (p *Plan) PeriodEnd(from time.Time) time.Time {
	if p.IsAnnual() {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
