package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы задач из минуты
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Project представляет строительный проект компании
type Project struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Основные поля
	Name        string `json:"name" gorm:"not null;type:varchar(150)"`
	Description string `json:"description" gorm:"type:text"`
	Location    string `json:"location" gorm:"type:varchar(200)"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	// Для мультитенантности
	CompanyID uint `json:"company_id" gorm:"not null;index"`
}

// TableName задает имя таблицы для модели Project
func (Project) TableName() string {
	return "projects"
}

// Minute представляет минуту (протокол) совещания по проекту
type Minute struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Основные поля
	ProjectID   uint      `json:"project_id" gorm:"not null;index"`
	Project     Project   `json:"project" gorm:"foreignKey:ProjectID"`
	Title       string    `json:"title" gorm:"not null;type:varchar(200)"`
	MeetingDate time.Time `json:"meeting_date" gorm:"not null"`
	Notes       string    `json:"notes" gorm:"type:text"`
	Attendees   string    `json:"attendees" gorm:"type:text"`

	// Для мультитенантности
	CompanyID uint `json:"company_id" gorm:"not null;index"`

	// Связи
	Tasks []MinuteTask `json:"tasks,omitempty" gorm:"foreignKey:MinuteID"`
}

// TableName задает имя таблицы для модели Minute
func (Minute) TableName() string {
	return "minutes"
}

// MinuteTask представляет задачу, зафиксированную в минуте
type MinuteTask struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Основные поля
	MinuteID    uint       `json:"minute_id" gorm:"not null;index"`
	Description string     `json:"description" gorm:"not null;type:text"`
	Responsible string     `json:"responsible" gorm:"type:varchar(100)"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status" gorm:"default:'open';type:varchar(20)"` // open, in_progress, done

	// Для мультитенантности
	CompanyID uint `json:"company_id" gorm:"not null;index"`
}

// TableName задает имя таблицы для модели MinuteTask
func (MinuteTask) TableName() string {
	return "minute_tasks"
}
