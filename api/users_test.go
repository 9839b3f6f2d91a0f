package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backend_minutas/database"
	"backend_minutas/models"
	"backend_minutas/testutils"
)

// setupUsersTestAPI создает роутер пользователей с in-memory базой данных
func setupUsersTestAPI(t *testing.T, companyID uint) (*gin.Engine, *gorm.DB) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		testutils.CleanupTestDB(db)
		database.DB = nil
	})

	database.DB = db

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("company_id", companyID)
		c.Set("role", models.RoleCompanyAdmin)
		c.Next()
	})
	router.GET("/api/users", GetUsers)
	router.POST("/api/users", CreateUser)
	router.PUT("/api/users/:id", UpdateUser)

	return router, db
}

func TestCreateUser(t *testing.T) {
	router, db := setupUsersTestAPI(t, 1)

	body, _ := json.Marshal(gin.H{
		"email":      "engineer@example.com",
		"password":   "secret-password",
		"first_name": "Петр",
		"last_name":  "Сидоров",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "engineer@example.com").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role, "роль по умолчанию — user")
	assert.EqualValues(t, 1, user.CompanyID)
	assert.True(t, user.CheckPassword("secret-password"))
	assert.NotContains(t, w.Body.String(), "secret-password")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	router, db := setupUsersTestAPI(t, 1)
	testutils.CreateTestUser(db, 1)

	body, _ := json.Marshal(gin.H{
		"email":      "test@example.com",
		"password":   "secret-password",
		"first_name": "Дубликат",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetUsers_TenantScoped(t *testing.T) {
	router, db := setupUsersTestAPI(t, 1)

	mine := testutils.CreateTestUser(db, 1)
	require.NotNil(t, mine)
	other := &models.User{Email: "other@example.com", CompanyID: 2, IsActive: true}
	require.NoError(t, other.SetPassword("x-password"))
	require.NoError(t, db.Create(other).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, mine.Email, response.Data[0].Email)
}

func TestUpdateUser_OtherCompanyNotFound(t *testing.T) {
	router, db := setupUsersTestAPI(t, 1)

	other := &models.User{Email: "other@example.com", CompanyID: 2, IsActive: true}
	require.NoError(t, other.SetPassword("x-password"))
	require.NoError(t, db.Create(other).Error)

	body, _ := json.Marshal(gin.H{"is_active": false})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/users/%d", other.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUser_Deactivate(t *testing.T) {
	router, db := setupUsersTestAPI(t, 1)
	user := testutils.CreateTestUser(db, 1)
	require.NotNil(t, user)

	body, _ := json.Marshal(gin.H{"is_active": false})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.False(t, updated.IsActive)
}
