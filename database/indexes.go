package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// DatabaseIndex представляет индекс базы данных
type DatabaseIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
	Where   string // Условие для частичного индекса
}

// BillingIndexes индексы ядра биллинга. Частичный уникальный индекс на
// pending-платежи держит инвариант "не более одного ожидающего платежа на
// подписку" на уровне хранилища, а не только в коде воркфлоу.
var BillingIndexes = []DatabaseIndex{
	{
		Name:    "ux_payments_subscription_pending",
		Table:   "payments",
		Columns: []string{"subscription_id"},
		Unique:  true,
		Where:   "status = 'pending' AND deleted_at IS NULL",
	},
	{
		Name:    "idx_payments_status_created",
		Table:   "payments",
		Columns: []string{"status", "created_at"},
	},
	{
		Name:    "idx_subscriptions_status",
		Table:   "subscriptions",
		Columns: []string{"status"},
	},
	{
		Name:    "idx_companies_approval_status",
		Table:   "companies",
		Columns: []string{"approval_status"},
	},
	{
		Name:    "idx_notification_logs_company_type",
		Table:   "notification_logs",
		Columns: []string{"company_id", "type"},
	},
	{
		Name:    "idx_minutes_company_project",
		Table:   "minutes",
		Columns: []string{"company_id", "project_id"},
	},
}

// CreateIndexes создает индексы биллинга, если их еще нет
func CreateIndexes(db *gorm.DB) error {
	for _, idx := range BillingIndexes {
		if err := createIndex(db, idx); err != nil {
			return fmt.Errorf("ошибка создания индекса %s: %w", idx.Name, err)
		}
	}

	log.Printf("✅ Создано/проверено %d индексов биллинга", len(BillingIndexes))
	return nil
}

// createIndex создает один индекс
func createIndex(db *gorm.DB, idx DatabaseIndex) error {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}

	query := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
		unique, idx.Name, idx.Table, strings.Join(idx.Columns, ", "))

	if idx.Where != "" {
		query += " WHERE " + idx.Where
	}

	return db.Exec(query).Error
}
