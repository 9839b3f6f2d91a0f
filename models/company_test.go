package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCompanyTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Company{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestCompany_BeforeCreateDefaults(t *testing.T) {
	db := setupCompanyTestDB(t)

	company := &Company{Name: "ООО Тест", INN: "7701234567"}
	require.NoError(t, db.Create(company).Error)

	assert.Equal(t, CompanyApprovalPending, company.ApprovalStatus)
	assert.Equal(t, DefaultTrialDays, company.TrialDays)
	assert.False(t, company.IsApproved())
}

func TestCompany_EffectiveTrialDays(t *testing.T) {
	assert.Equal(t, 30, (&Company{TrialDays: 30}).EffectiveTrialDays())
	assert.Equal(t, DefaultTrialDays, (&Company{}).EffectiveTrialDays())
	assert.Equal(t, DefaultTrialDays, (&Company{TrialDays: -1}).EffectiveTrialDays())
}
