package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_minutas/database"
	"backend_minutas/models"
)

// TenantMiddleware определяет текущую компанию (tenant) запроса
type TenantMiddleware struct {
	DB *gorm.DB
}

// NewTenantMiddleware создает новый экземпляр TenantMiddleware
func NewTenantMiddleware(db *gorm.DB) *TenantMiddleware {
	return &TenantMiddleware{DB: db}
}

// SetTenant загружает компанию из контекста аутентификации и сохраняет ее
// в контексте запроса. Для администраторов платформы (company_id = 0)
// компания не резолвится.
func (tm *TenantMiddleware) SetTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetUint("company_id")
		if companyID == 0 {
			// Администратор платформы работает вне контекста компании
			c.Next()
			return
		}

		company, err := tm.GetCompanyByID(companyID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Не удалось определить компанию: " + err.Error(),
			})
			c.Abort()
			return
		}

		// Сохраняем информацию о текущей компании в контексте
		c.Set("company", company)

		c.Next()
	}
}

// GetCompanyByID получает компанию по ID с кэшированием
func (tm *TenantMiddleware) GetCompanyByID(companyID uint) (*models.Company, error) {
	// Пробуем получить из кэша
	cacheKey := fmt.Sprintf("company:id:%d", companyID)
	var company models.Company

	if err := database.CacheGetJSON(cacheKey, &company); err == nil {
		return &company, nil
	}

	if err := tm.DB.Where("id = ?", companyID).First(&company).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("компания с ID %d не найдена", companyID)
		}
		return nil, fmt.Errorf("ошибка поиска компании: %v", err)
	}

	// Кэшируем на 15 минут
	database.CacheSetJSON(cacheKey, &company, 15*time.Minute)

	return &company, nil
}

// InvalidateCompanyCache сбрасывает кэш компании после изменения ее статуса
func InvalidateCompanyCache(companyID uint) {
	cacheKey := fmt.Sprintf("company:id:%d", companyID)
	database.CacheDel(cacheKey)
}

// GetCurrentCompany возвращает текущую компанию из контекста
func GetCurrentCompany(c *gin.Context) *models.Company {
	if company, exists := c.Get("company"); exists {
		if comp, ok := company.(*models.Company); ok {
			return comp
		}
	}
	return nil
}

// GetCompanyID возвращает ID текущей компании из контекста
func GetCompanyID(c *gin.Context) uint {
	return c.GetUint("company_id")
}
