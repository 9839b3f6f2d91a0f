package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backend_minutas/database"
	"backend_minutas/models"
	"backend_minutas/services"
)

// ReportsAPI представляет API выгрузок и квитанций
type ReportsAPI struct {
	Reports *services.ReportService
}

// NewReportsAPI создает новый экземпляр ReportsAPI
func NewReportsAPI(reports *services.ReportService) *ReportsAPI {
	return &ReportsAPI{Reports: reports}
}

// ExportPayments выгружает реестр платежей в формате Excel (только для админа платформы)
// GET /api/admin/reports/payments?date_from=2026-01-01&date_to=2026-01-31&status=approved
func (api *ReportsAPI) ExportPayments(c *gin.Context) {
	params := services.PaymentsReportParams{
		Status: c.Query("status"),
	}

	if raw := c.Query("date_from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  "Неверный формат date_from, ожидается YYYY-MM-DD",
			})
			return
		}
		params.DateFrom = &parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  "Неверный формат date_to, ожидается YYYY-MM-DD",
			})
			return
		}
		// Включаем весь день date_to
		endOfDay := parsed.AddDate(0, 0, 1).Add(-time.Second)
		params.DateTo = &endOfDay
	}

	data, err := api.Reports.ExportPaymentsXLSX(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GetPaymentReceipt формирует PDF-квитанцию по одобренному платежу
// GET /api/billing/payments/:id/receipt
func (api *ReportsAPI) GetPaymentReceipt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID платежа",
		})
		return
	}

	// Квитанция доступна только по платежу своей компании
	var count int64
	database.DB.Model(&models.Payment{}).
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Where("payments.id = ? AND subscriptions.company_id = ?", uint(id), getCompanyIDFromContext(c)).
		Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Платеж не найден",
		})
		return
	}

	data, err := api.Reports.GeneratePaymentReceiptPDF(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", data)
}
