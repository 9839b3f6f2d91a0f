package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backend_minutas/database"
	"backend_minutas/models"
)

// GetUsers возвращает пользователей текущей компании
// GET /api/users
func GetUsers(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	var users []models.User
	if err := database.DB.Where("company_id = ?", companyID).
		Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения пользователей",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   users,
	})
}

// CreateUser создает пользователя в текущей компании
// POST /api/users
func CreateUser(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6,max=64"`
		FirstName string `json:"first_name" binding:"required,min=1,max=100"`
		LastName  string `json:"last_name"`
		Role      string `json:"role" binding:"omitempty,oneof=company_admin user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Пользователь с таким email уже существует",
		})
		return
	}

	user := models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  true,
		CompanyID: getCompanyIDFromContext(c),
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка обработки пароля",
		})
		return
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка создания пользователя",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   user,
	})
}

// UpdateUser обновляет пользователя текущей компании
// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID пользователя",
		})
		return
	}

	var user models.User
	if err := database.DB.Where("id = ? AND company_id = ?", uint(id), getCompanyIDFromContext(c)).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Пользователь не найден",
		})
		return
	}

	var req struct {
		FirstName string `json:"first_name" binding:"omitempty,min=1,max=100"`
		LastName  string `json:"last_name"`
		Role      string `json:"role" binding:"omitempty,oneof=company_admin user"`
		IsActive  *bool  `json:"is_active"`
		Password  string `json:"password" binding:"omitempty,min=6,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error",
				"error":  "Ошибка обработки пароля",
			})
			return
		}
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка обновления пользователя",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   user,
	})
}
