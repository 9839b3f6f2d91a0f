package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"backend_minutas/middleware"
	"backend_minutas/models"
)

// AuthAPI представляет API аутентификации и регистрации компаний
type AuthAPI struct {
	DB        *gorm.DB
	Auth      *middleware.AuthMiddleware
	ExpiresIn time.Duration
}

// NewAuthAPI создает новый экземпляр AuthAPI
func NewAuthAPI(db *gorm.DB, auth *middleware.AuthMiddleware, expiresIn time.Duration) *AuthAPI {
	return &AuthAPI{DB: db, Auth: auth, ExpiresIn: expiresIn}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

type RegisterRequest struct {
	CompanyName   string `json:"company_name" binding:"required,min=2,max=100"`
	INN           string `json:"inn" binding:"required,min=10,max=20"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6,max=64"`
}

// Login выполняет вход пользователя и выдает JWT токен
// POST /api/auth/login
func (api *AuthAPI) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	var user models.User
	if err := api.DB.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Неверный email или пароль",
		})
		return
	}

	if !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Неверный email или пароль",
		})
		return
	}

	token, err := api.Auth.IssueToken(&user, api.ExpiresIn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка выпуска токена",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"token": token,
			"user":  user,
		},
	})
}

// Register регистрирует новую компанию и ее первого пользователя.
// Компания создается со статусом pending и ждет одобрения платформой.
// POST /api/auth/register
func (api *AuthAPI) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	var existing models.Company
	if err := api.DB.Where("inn = ?", req.INN).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Компания с таким ИНН уже зарегистрирована",
		})
		return
	}
	var existingUser models.User
	if err := api.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  "Пользователь с таким email уже существует",
		})
		return
	}

	var company models.Company
	err := api.DB.Transaction(func(tx *gorm.DB) error {
		company = models.Company{
			Name:          req.CompanyName,
			INN:           req.INN,
			ContactPerson: req.ContactPerson,
			ContactPhone:  req.ContactPhone,
			ContactEmail:  req.Email,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		user := models.User{
			Email:     req.Email,
			Role:      models.RoleCompanyAdmin,
			IsActive:  true,
			CompanyID: company.ID,
		}
		if err := user.SetPassword(req.Password); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка при регистрации компании",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   company,
	})
}
