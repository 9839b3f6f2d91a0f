package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backend_minutas/database"
	"backend_minutas/models"
	"backend_minutas/services"
)

// BillingAPI представляет API жизненного цикла подписки и платежей
type BillingAPI struct {
	Subscriptions *services.SubscriptionService
}

// NewBillingAPI создает новый экземпляр BillingAPI
func NewBillingAPI(subscriptions *services.SubscriptionService) *BillingAPI {
	return &BillingAPI{Subscriptions: subscriptions}
}

// respondServiceError переводит типизированные ошибки сервисов в HTTP-ответы
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": err.Error()})
	case services.IsConflictError(err):
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Внутренняя ошибка сервера"})
	}
}

// GetMySubscription возвращает подписку текущей компании
// GET /api/billing/subscription
func (api *BillingAPI) GetMySubscription(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	subscription, err := api.Subscriptions.GetCompanySubscription(companyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   subscription,
	})
}

// SelectPlan привязывает текущую компанию к тарифному плану
// POST /api/billing/subscription
func (api *BillingAPI) SelectPlan(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	var req struct {
		PlanID uint `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	subscription, err := api.Subscriptions.SelectPlan(companyID, req.PlanID, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   subscription,
	})
}

// GetMyPayments возвращает платежи текущей компании
// GET /api/billing/payments
func (api *BillingAPI) GetMyPayments(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	subscription, err := api.Subscriptions.GetCompanySubscription(companyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if subscription == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   []models.Payment{},
		})
		return
	}

	var payments []models.Payment
	if err := database.DB.Where("subscription_id = ?", subscription.ID).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения платежей",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   payments,
	})
}

// ReportPayment регистрирует заявленный вручную платеж с файлом подтверждения
// POST /api/billing/payments (multipart/form-data: amount, method, proof)
func (api *BillingAPI) ReportPayment(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	subscription, err := api.Subscriptions.GetCompanySubscription(companyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if subscription == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Сначала выберите тарифный план",
		})
		return
	}

	amount, err := decimal.NewFromString(c.PostForm("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат суммы",
		})
		return
	}
	method := c.PostForm("method")

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Файл подтверждения платежа обязателен",
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка чтения файла подтверждения",
		})
		return
	}
	defer file.Close()

	payment, err := api.Subscriptions.ReportPayment(subscription.ID, amount, method, fileHeader.Filename, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   payment,
	})
}

// GetPendingPayments возвращает платежи, ожидающие проверки (только для админа платформы)
// GET /api/admin/payments
func (api *BillingAPI) GetPendingPayments(c *gin.Context) {
	status := c.DefaultQuery("status", models.PaymentStatusPending)

	var payments []models.Payment
	query := database.DB.Preload("Subscription").
		Preload("Subscription.Plan").Preload("Subscription.Company").
		Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения платежей",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   payments,
	})
}

// ReviewPayment обрабатывает решение администратора по платежу
// POST /api/admin/payments/:id/review
func (api *BillingAPI) ReviewPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID платежа",
		})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required,oneof=approve reject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Решение должно быть approve или reject",
		})
		return
	}

	payment, err := api.Subscriptions.ReviewPayment(uint(id), req.Decision, getUserIDFromContext(c), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   payment,
	})
}
