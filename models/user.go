package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RolePlatformAdmin = "platform_admin" // Администратор платформы, проверяет платежи
	RoleCompanyAdmin  = "company_admin"  // Администратор компании
	RoleUser          = "user"
)

// User представляет модель пользователя в системе
type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Основные поля
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // Пароль не возвращается в JSON

	// Дополнительные поля
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" gorm:"default:'user'"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`

	// Для мультитенантности (0 для администраторов платформы)
	CompanyID uint `json:"company_id" gorm:"index"`
}

// TableName задает имя таблицы для модели User
func (User) TableName() string {
	return "users"
}

// SetPassword хэширует и устанавливает пароль пользователя
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword проверяет пароль пользователя
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// IsPlatformAdmin проверяет, является ли пользователь администратором платформы
func (u *User) IsPlatformAdmin() bool {
	return u.Role == RolePlatformAdmin
}
