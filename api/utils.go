package api

import (
	"github.com/gin-gonic/gin"

	"backend_minutas/middleware"
	"backend_minutas/models"
)

// getCompanyIDFromContext извлекает ID компании из контекста Gin
func getCompanyIDFromContext(c *gin.Context) uint {
	return c.GetUint("company_id")
}

// getCurrentCompany возвращает текущую компанию из контекста Gin
func getCurrentCompany(c *gin.Context) *models.Company {
	return middleware.GetCurrentCompany(c)
}

// getUserIDFromContext извлекает ID пользователя из контекста Gin
func getUserIDFromContext(c *gin.Context) uint {
	return c.GetUint("user_id")
}
