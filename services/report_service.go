package services

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"backend_minutas/models"
)

// ReportService формирует выгрузки по платежам для администратора платформы
type ReportService struct {
	db *gorm.DB
}

// NewReportService создает новый экземпляр ReportService
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// PaymentsReportParams представляет параметры выгрузки реестра платежей
type PaymentsReportParams struct {
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Status   string     `json:"status,omitempty"`
}

// ExportPaymentsXLSX формирует реестр платежей в формате Excel
func (rs *ReportService) ExportPaymentsXLSX(params PaymentsReportParams) ([]byte, error) {
	payments, err := rs.fetchPayments(params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close Excel file: %v", err)
		}
	}()

	sheetName := "Платежи"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Компания", "Тарифный план", "Сумма", "Валюта", "Способ оплаты", "Статус", "Дата заявления", "Дата проверки"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, payment := range payments {
		reviewedAt := ""
		if payment.ReviewedAt != nil {
			reviewedAt = payment.ReviewedAt.Format("02.01.2006 15:04")
		}
		values := []interface{}{
			payment.ID,
			payment.Subscription.Company.Name,
			payment.Subscription.Plan.Name,
			payment.Amount.String(),
			payment.Currency,
			payment.Method,
			payment.Status,
			payment.CreatedAt.Format("02.01.2006 15:04"),
			reviewedAt,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Добавляем автофильтр
	endCell, _ := excelize.CoordinatesToCellName(len(headers), len(payments)+1)
	f.AutoFilter(sheetName, "A1:"+endCell, []excelize.AutoFilterOptions{})

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("ошибка записи Excel файла: %w", err)
	}

	return buf.Bytes(), nil
}

// GeneratePaymentReceiptPDF формирует квитанцию по одобренному платежу
func (rs *ReportService) GeneratePaymentReceiptPDF(paymentID uint) ([]byte, error) {
	var payment models.Payment
	if err := rs.db.Preload("Subscription").Preload("Subscription.Company").Preload("Subscription.Plan").
		Where("id = ?", paymentID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("платеж", paymentID)
		}
		return nil, NewInfrastructureError("получение платежа", err)
	}

	if payment.Status != models.PaymentStatusApproved {
		return nil, NewConflictError("квитанция доступна только для подтвержденных платежей")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Receipt #%d", payment.ID))
	pdf.Ln(16)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Company", payment.Subscription.Company.Name},
		{"Plan", payment.Subscription.Plan.Name},
		{"Amount", fmt.Sprintf("%s %s", payment.Amount.String(), payment.Currency)},
		{"Method", payment.Method},
		{"Reported at", payment.CreatedAt.Format("02.01.2006 15:04")},
	}
	if payment.ReviewedAt != nil {
		rows = append(rows, [2]string{"Approved at", payment.ReviewedAt.Format("02.01.2006 15:04")})
	}
	rows = append(rows,
		[2]string{"Period start", payment.Subscription.StartDate.Format("02.01.2006")},
		[2]string{"Period end", payment.Subscription.EndDate.Format("02.01.2006")},
	)

	for _, row := range rows {
		pdf.CellFormat(50, 8, row[0], "", 0, "", false, 0, "")
		pdf.CellFormat(120, 8, row[1], "", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ошибка генерации PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// fetchPayments получает платежи по параметрам выгрузки
func (rs *ReportService) fetchPayments(params PaymentsReportParams) ([]models.Payment, error) {
	query := rs.db.Preload("Subscription").Preload("Subscription.Company").Preload("Subscription.Plan").
		Order("created_at DESC")

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.DateFrom != nil {
		query = query.Where("created_at >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("created_at <= ?", *params.DateTo)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, NewInfrastructureError("получение платежей", err)
	}

	return payments, nil
}
