package testutils

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"backend_minutas/models"
)

// SetupTestDB создает и настраивает тестовую базу данных в памяти
// Эта функция должна использоваться во всех тестах для обеспечения консистентности
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Выполняем миграции в правильном порядке
	err = db.AutoMigrate(
		// Базовые модели
		&models.Company{},
		&models.User{},

		// Биллинг
		&models.Plan{},
		&models.Subscription{},
		&models.Payment{},

		// Уведомления
		&models.NotificationLog{},

		// Проекты и минуты
		&models.Project{},
		&models.Minute{},
		&models.MinuteTask{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// CleanupTestDB очищает тестовую базу данных
func CleanupTestDB(db *gorm.DB) {
	if db != nil {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
}

// CreateTestCompany создает одобренную тестовую компанию
func CreateTestCompany(db *gorm.DB) *models.Company {
	company := &models.Company{
		Name:           "Test Company",
		INN:            "7701234567",
		ApprovalStatus: models.CompanyApprovalApproved,
		TrialDays:      14,
		ContactEmail:   "owner@test.example.com",
	}

	if err := db.Create(company).Error; err != nil {
		log.Printf("Failed to create test company: %v", err)
		return nil
	}

	return company
}

// CreateTestUser создает тестового пользователя компании
func CreateTestUser(db *gorm.DB, companyID uint) *models.User {
	user := &models.User{
		Email:     "test@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      models.RoleCompanyAdmin,
		IsActive:  true,
		CompanyID: companyID,
	}
	if err := user.SetPassword("test-password"); err != nil {
		log.Printf("Failed to hash test password: %v", err)
		return nil
	}

	if err := db.Create(user).Error; err != nil {
		log.Printf("Failed to create test user: %v", err)
		return nil
	}

	return user
}

// CreateTestPlan создает тестовый тарифный план
func CreateTestPlan(db *gorm.DB, billingCycle string) *models.Plan {
	plan := &models.Plan{
		Name:         "Test Plan",
		Code:         "test-" + billingCycle,
		Price:        decimal.NewFromInt(4900),
		Currency:     "RUB",
		BillingCycle: billingCycle,
		IsActive:     true,
	}

	if err := db.Create(plan).Error; err != nil {
		log.Printf("Failed to create test plan: %v", err)
		return nil
	}

	return plan
}

// CreateTestSubscription создает подписку компании в указанном статусе
func CreateTestSubscription(db *gorm.DB, companyID, planID uint, status string, start, end time.Time) *models.Subscription {
	subscription := &models.Subscription{
		CompanyID: companyID,
		PlanID:    planID,
		Status:    status,
		StartDate: start,
		EndDate:   end,
	}

	if err := db.Create(subscription).Error; err != nil {
		log.Printf("Failed to create test subscription: %v", err)
		return nil
	}

	return subscription
}
