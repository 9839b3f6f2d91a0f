package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"backend_minutas/database"
	"backend_minutas/middleware"
	"backend_minutas/models"
	"backend_minutas/services"
)

// GetAdminDashboard возвращает сводку для администратора платформы:
// заявки компаний, подписки и платежи, ожидающие проверки
// GET /api/admin/dashboard
func GetAdminDashboard(c *gin.Context) {
	var pendingCompanies, approvedCompanies int64
	database.DB.Model(&models.Company{}).
		Where("approval_status = ?", models.CompanyApprovalPending).Count(&pendingCompanies)
	database.DB.Model(&models.Company{}).
		Where("approval_status = ?", models.CompanyApprovalApproved).Count(&approvedCompanies)

	var activeSubscriptions, pastDueSubscriptions int64
	database.DB.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusActive).Count(&activeSubscriptions)
	database.DB.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusPastDue).Count(&pastDueSubscriptions)

	var pendingPayments int64
	database.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusPending).Count(&pendingPayments)

	var recentPayments []models.Payment
	database.DB.Preload("Subscription.Company").Preload("Subscription.Plan").
		Order("created_at DESC").Limit(10).Find(&recentPayments)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"companies": gin.H{
				"pending":  pendingCompanies,
				"approved": approvedCompanies,
			},
			"subscriptions": gin.H{
				"active":   activeSubscriptions,
				"past_due": pastDueSubscriptions,
			},
			"pending_payments": pendingPayments,
			"recent_payments":  recentPayments,
		},
	})
}

// GetCompanyDashboard возвращает сводку для компании: состояние доступа,
// пробный период и счетчики по проектам и задачам
// GET /api/account/dashboard
func GetCompanyDashboard(c *gin.Context) {
	company := getCurrentCompany(c)
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Пользователь не привязан к компании",
		})
		return
	}

	now := time.Now()
	trial := services.CompanyTrialStatus(company, now)

	var projects, minutes, openTasks int64
	database.DB.Model(&models.Project{}).
		Where("company_id = ? AND is_active = ?", company.ID, true).Count(&projects)
	database.DB.Model(&models.Minute{}).
		Where("company_id = ?", company.ID).Count(&minutes)
	database.DB.Model(&models.MinuteTask{}).
		Where("company_id = ? AND status != ?", company.ID, models.TaskStatusDone).Count(&openTasks)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"access_state": middleware.GetAccessState(c),
			"trial":        trial,
			"projects":     projects,
			"minutes":      minutes,
			"open_tasks":   openTasks,
		},
	})
}
