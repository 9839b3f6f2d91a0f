package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backend_minutas/database"
	"backend_minutas/middleware"
	"backend_minutas/models"
	"backend_minutas/services"
)

// CompaniesAPI представляет API для управления компаниями
type CompaniesAPI struct {
	Subscriptions *services.SubscriptionService
}

// NewCompaniesAPI создает новый экземпляр CompaniesAPI
func NewCompaniesAPI(subscriptions *services.SubscriptionService) *CompaniesAPI {
	return &CompaniesAPI{Subscriptions: subscriptions}
}

// GetCompanies возвращает список компаний с фильтрацией (только для админа платформы)
// GET /api/admin/companies
func (api *CompaniesAPI) GetCompanies(c *gin.Context) {
	var companies []models.Company

	query := database.DB.Model(&models.Company{})

	if status := c.Query("approval_status"); status != "" {
		query = query.Where("approval_status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		searchPattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR inn ILIKE ? OR contact_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var total int64
	query.Count(&total)

	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения списка компаний",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"items": companies,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCompany возвращает компанию по ID (только для админа платформы)
// GET /api/admin/companies/:id
func (api *CompaniesAPI) GetCompany(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID компании",
		})
		return
	}

	var company models.Company
	if err := database.DB.First(&company, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Компания не найдена",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   company,
	})
}

// ApproveCompany одобряет заявку компании (только для админа платформы)
// POST /api/admin/companies/:id/approve
func (api *CompaniesAPI) ApproveCompany(c *gin.Context) {
	api.reviewCompany(c, models.CompanyApprovalApproved)
}

// RejectCompany отклоняет заявку компании (только для админа платформы)
// POST /api/admin/companies/:id/reject
func (api *CompaniesAPI) RejectCompany(c *gin.Context) {
	api.reviewCompany(c, models.CompanyApprovalRejected)
}

func (api *CompaniesAPI) reviewCompany(c *gin.Context, status string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID компании",
		})
		return
	}

	var company models.Company
	if err := database.DB.First(&company, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Компания не найдена",
		})
		return
	}

	// Решение по заявке принимается один раз
	result := database.DB.Model(&models.Company{}).
		Where("id = ? AND approval_status = ?", company.ID, models.CompanyApprovalPending).
		Update("approval_status", status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка обновления компании",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Заявка компании уже рассмотрена",
		})
		return
	}

	middleware.InvalidateCompanyCache(company.ID)

	database.DB.First(&company, company.ID)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   company,
	})
}

// UpdateCompanyTrial изменяет длительность пробного периода компании (только для админа платформы)
// PUT /api/admin/companies/:id/trial
func (api *CompaniesAPI) UpdateCompanyTrial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID компании",
		})
		return
	}

	var req struct {
		TrialDays int `json:"trial_days" binding:"required,min=0,max=365"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	result := database.DB.Model(&models.Company{}).
		Where("id = ?", uint(id)).
		Update("trial_days", req.TrialDays)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка обновления компании",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Компания не найдена",
		})
		return
	}

	middleware.InvalidateCompanyCache(uint(id))

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Пробный период обновлен",
	})
}

// GetMyCompany возвращает компанию текущего пользователя вместе с состоянием доступа
// GET /api/account/company
func (api *CompaniesAPI) GetMyCompany(c *gin.Context) {
	company := getCurrentCompany(c)
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Пользователь не привязан к компании",
		})
		return
	}

	subscription, err := api.Subscriptions.GetCompanySubscription(company.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения подписки",
		})
		return
	}

	now := time.Now()
	state := services.ResolveAccess(company, subscription, now)
	trial := services.CompanyTrialStatus(company, now)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"company":      company,
			"subscription": subscription,
			"access_state": state,
			"trial":        trial,
		},
	})
}
