package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"backend_minutas/api"
	"backend_minutas/config"
	"backend_minutas/database"
	"backend_minutas/middleware"
	"backend_minutas/models"
	"backend_minutas/services"
)

// initDB инициализирует подключение к базе данных
func initDB() {
	log.Println("🔧 Инициализация базы данных...")

	// Создаем базу данных, если она не существует
	if err := database.CreateDatabaseIfNotExists(); err != nil {
		log.Fatal("❌ Ошибка при создании базы данных:", err)
	}

	// Подключаемся к базе данных
	if err := database.ConnectDatabase(); err != nil {
		log.Fatal("❌ Ошибка подключения к базе данных:", err)
	}

	log.Println("✅ База данных успешно инициализирована")
}

// ensurePlatformAdmin создает администратора платформы из переменных
// окружения, если в базе его еще нет
func ensurePlatformAdmin() {
	email := os.Getenv("PLATFORM_ADMIN_EMAIL")
	password := os.Getenv("PLATFORM_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("role = ?", models.RolePlatformAdmin).Count(&count)
	if count > 0 {
		return
	}

	admin := models.User{
		Email:    email,
		Role:     models.RolePlatformAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("⚠️  Ошибка создания администратора платформы: %v", err)
		return
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("⚠️  Ошибка создания администратора платформы: %v", err)
		return
	}
	log.Printf("✅ Создан администратор платформы %s", email)
}

func main() {
	// Загружаем конфигурацию (включая .env файл)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("❌ Ошибка загрузки конфигурации:", err)
	}
	cfg.LogConfig()

	// Инициализируем базу данных
	initDB()
	ensurePlatformAdmin()

	// Redis не обязателен: без него отключаются кэш и rate limiting
	if err := database.InitRedis(); err != nil {
		log.Printf("⚠️  Redis недоступен, кэширование отключено: %v", err)
	}

	// Собираем сервисы
	storage, err := services.NewLocalBlobStorage(cfg.Storage.UploadsDir, cfg.Storage.PublicPath)
	if err != nil {
		log.Fatal("❌ Ошибка инициализации хранилища файлов:", err)
	}

	var telegram *services.TelegramClient
	if cfg.External.TelegramBotToken != "" {
		telegram, err = services.NewTelegramClient(cfg.External.TelegramBotToken, cfg.External.TelegramChatID)
		if err != nil {
			log.Printf("⚠️  Telegram недоступен, уведомления только по email: %v", err)
			telegram = nil
		}
	}

	notifications := services.NewNotificationService(database.DB, cfg.External.SMTP, cfg.Billing.AdminEmail, telegram)
	subscriptions := services.NewSubscriptionService(database.DB, storage, notifications)
	reports := services.NewReportService(database.DB)

	// Планировщик напоминаний об оплате и пробном периоде
	if cfg.Billing.EnableReminderCron {
		scheduler := services.NewBillingScheduler(database.DB, notifications, cfg.Billing.ReminderSchedule, cfg.Billing.TrialWarningDays)
		if err := scheduler.Start(); err != nil {
			log.Printf("⚠️  Планировщик напоминаний не запущен: %v", err)
		}
	}

	// Middleware
	auth := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer)
	tenant := middleware.NewTenantMiddleware(database.DB)
	accessGuard := middleware.NewAccessGuard(subscriptions)

	// API
	authAPI := api.NewAuthAPI(database.DB, auth, cfg.JWT.ExpiresIn)
	companiesAPI := api.NewCompaniesAPI(subscriptions)
	billingAPI := api.NewBillingAPI(subscriptions)
	reportsAPI := api.NewReportsAPI(reports)

	// Настраиваем Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowMethods = cfg.CORS.AllowedMethods
	corsConfig.AllowHeaders = cfg.CORS.AllowedHeaders
	corsConfig.AllowCredentials = cfg.CORS.AllowCredentials
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	// Файлы подтверждений платежей
	r.Static(cfg.Storage.PublicPath, cfg.Storage.UploadsDir)

	// Базовые роуты
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "success",
			"message":  "pong",
			"database": "connected",
		})
	})

	// Публичные роуты
	public := r.Group("/api")
	{
		public.POST("/auth/register", middleware.AuthRateLimit(), authAPI.Register)
		public.POST("/auth/login", middleware.AuthRateLimit(), authAPI.Login)
		public.GET("/plans", api.GetPlans)
	}

	// Роуты компании: аутентификация, тенант, затем проверка доступа
	protected := r.Group("/api")
	protected.Use(auth.RequireAuth(), tenant.SetTenant(), accessGuard.CheckAccess())
	{
		protected.GET("/account/company", companiesAPI.GetMyCompany)
		protected.GET("/account/dashboard", api.GetCompanyDashboard)

		protected.GET("/billing/subscription", billingAPI.GetMySubscription)
		protected.POST("/billing/subscription", billingAPI.SelectPlan)
		protected.GET("/billing/payments", billingAPI.GetMyPayments)
		protected.POST("/billing/payments", billingAPI.ReportPayment)
		protected.GET("/billing/payments/:id/receipt", reportsAPI.GetPaymentReceipt)

		protected.GET("/users", api.GetUsers)
		protected.POST("/users", api.CreateUser)
		protected.PUT("/users/:id", api.UpdateUser)

		protected.GET("/projects", api.GetProjects)
		protected.POST("/projects", api.CreateProject)
		protected.PUT("/projects/:id", api.UpdateProject)

		protected.GET("/minutes", api.GetMinutes)
		protected.GET("/minutes/:id", api.GetMinute)
		protected.POST("/minutes", api.CreateMinute)
		protected.PUT("/minute-tasks/:id", api.UpdateMinuteTask)
	}

	// Роуты администратора платформы
	admin := r.Group("/api/admin")
	admin.Use(auth.RequireAuth(), auth.RequirePlatformAdmin())
	{
		admin.GET("/dashboard", api.GetAdminDashboard)

		admin.GET("/companies", companiesAPI.GetCompanies)
		admin.GET("/companies/:id", companiesAPI.GetCompany)
		admin.POST("/companies/:id/approve", companiesAPI.ApproveCompany)
		admin.POST("/companies/:id/reject", companiesAPI.RejectCompany)
		admin.PUT("/companies/:id/trial", companiesAPI.UpdateCompanyTrial)

		admin.GET("/plans", api.GetAllPlans)
		admin.POST("/plans", api.CreatePlan)
		admin.PUT("/plans/:id", api.UpdatePlan)
		admin.DELETE("/plans/:id", api.DeletePlan)

		admin.GET("/payments", billingAPI.GetPendingPayments)
		admin.POST("/payments/:id/review", billingAPI.ReviewPayment)

		admin.GET("/reports/payments", reportsAPI.ExportPayments)
	}

	log.Printf("🚀 Сервер запущен на порту %s", cfg.App.Port)
	r.Run(":" + cfg.App.Port)
}
