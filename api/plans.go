package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backend_minutas/database"
	"backend_minutas/models"
)

// GetPlans возвращает каталог активных тарифных планов
// GET /api/plans
func GetPlans(c *gin.Context) {
	var plans []models.Plan

	if err := database.DB.Where("is_active = ?", true).
		Order("price ASC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения тарифных планов",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   plans,
	})
}

// GetAllPlans возвращает все тарифные планы, включая неактивные (только для админа платформы)
// GET /api/admin/plans
func GetAllPlans(c *gin.Context) {
	var plans []models.Plan

	if err := database.DB.Order("price ASC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения тарифных планов",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   plans,
	})
}

// PlanRequest содержит данные тарифного плана для создания и обновления
type PlanRequest struct {
	Name         string          `json:"name" binding:"required,min=2,max=100"`
	Code         string          `json:"code" binding:"required,min=2,max=50"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Currency     string          `json:"currency"`
	BillingCycle string          `json:"billing_cycle" binding:"omitempty,oneof=monthly annual"`
	MaxUsers     int             `json:"max_users"`
	MaxProjects  int             `json:"max_projects"`
	MaxStorage   int             `json:"max_storage"`
	HasReports   bool            `json:"has_reports"`
	HasAPI       bool            `json:"has_api"`
	HasSupport   bool            `json:"has_support"`
	IsActive     bool            `json:"is_active"`
	IsPopular    bool            `json:"is_popular"`
}

// CreatePlan создает новый тарифный план (только для админа платформы)
// POST /api/admin/plans
func CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Цена не может быть отрицательной",
		})
		return
	}

	var existing models.Plan
	if err := database.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Тарифный план с таким кодом уже существует",
		})
		return
	}

	plan := models.Plan{
		Name:         req.Name,
		Code:         req.Code,
		Description:  req.Description,
		Price:        req.Price,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		MaxUsers:     req.MaxUsers,
		MaxProjects:  req.MaxProjects,
		MaxStorage:   req.MaxStorage,
		HasReports:   req.HasReports,
		HasAPI:       req.HasAPI,
		HasSupport:   req.HasSupport,
		IsActive:     req.IsActive,
		IsPopular:    req.IsPopular,
	}
	if plan.Currency == "" {
		plan.Currency = "RUB"
	}
	if plan.BillingCycle == "" {
		plan.BillingCycle = models.BillingCycleMonthly
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка создания тарифного плана",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   plan,
	})
}

// UpdatePlan обновляет тарифный план (только для админа платформы)
// PUT /api/admin/plans/:id
func UpdatePlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID тарифного плана",
		})
		return
	}

	var plan models.Plan
	if err := database.DB.First(&plan, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Тарифный план не найден",
		})
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Цена не может быть отрицательной",
		})
		return
	}

	// Код плана должен оставаться уникальным
	var existing models.Plan
	if err := database.DB.Where("code = ? AND id != ?", req.Code, plan.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Тарифный план с таким кодом уже существует",
		})
		return
	}

	plan.Name = req.Name
	plan.Code = req.Code
	plan.Description = req.Description
	plan.Price = req.Price
	plan.BillingCycle = req.BillingCycle
	plan.MaxUsers = req.MaxUsers
	plan.MaxProjects = req.MaxProjects
	plan.MaxStorage = req.MaxStorage
	plan.HasReports = req.HasReports
	plan.HasAPI = req.HasAPI
	plan.HasSupport = req.HasSupport
	plan.IsActive = req.IsActive
	plan.IsPopular = req.IsPopular
	if req.Currency != "" {
		plan.Currency = req.Currency
	}
	if plan.BillingCycle == "" {
		plan.BillingCycle = models.BillingCycleMonthly
	}

	if err := database.DB.Save(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка обновления тарифного плана",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   plan,
	})
}

// DeletePlan удаляет тарифный план (только для админа платформы).
// План с активными подписками удалить нельзя.
// DELETE /api/admin/plans/:id
func DeletePlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID тарифного плана",
		})
		return
	}

	var plan models.Plan
	if err := database.DB.First(&plan, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Тарифный план не найден",
		})
		return
	}

	var subscriptionCount int64
	database.DB.Model(&models.Subscription{}).
		Where("plan_id = ?", plan.ID).
		Count(&subscriptionCount)
	if subscriptionCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Нельзя удалить тарифный план с подписками",
		})
		return
	}

	if err := database.DB.Delete(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка удаления тарифного плана",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Тарифный план удален",
	})
}
