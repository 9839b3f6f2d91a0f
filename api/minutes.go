package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backend_minutas/database"
	"backend_minutas/models"
)

// GetProjects возвращает проекты текущей компании
// GET /api/projects
func GetProjects(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	var projects []models.Project
	query := database.DB.Where("company_id = ?", companyID)
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения проектов",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   projects,
	})
}

// CreateProject создает проект в текущей компании
// POST /api/projects
func CreateProject(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=2,max=150"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		IsActive:    true,
		CompanyID:   getCompanyIDFromContext(c),
	}
	if err := database.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка создания проекта",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   project,
	})
}

// UpdateProject обновляет проект текущей компании
// PUT /api/projects/:id
func UpdateProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID проекта",
		})
		return
	}

	var project models.Project
	if err := database.DB.Where("id = ? AND company_id = ?", uint(id), getCompanyIDFromContext(c)).
		First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Проект не найден",
		})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,min=2,max=150"`
		Description string `json:"description"`
		Location    string `json:"location"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Location = req.Location
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка обновления проекта",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   project,
	})
}

// GetMinutes возвращает минуты совещаний текущей компании
// GET /api/minutes?project_id=1
func GetMinutes(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	var minutes []models.Minute
	query := database.DB.Preload("Project").Where("company_id = ?", companyID)
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if err := query.Order("meeting_date DESC").Find(&minutes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка получения минут",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   minutes,
	})
}

// GetMinute возвращает минуту вместе с задачами
// GET /api/minutes/:id
func GetMinute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID минуты",
		})
		return
	}

	var minute models.Minute
	if err := database.DB.Preload("Project").Preload("Tasks").
		Where("id = ? AND company_id = ?", uint(id), getCompanyIDFromContext(c)).
		First(&minute).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Минута не найдена",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   minute,
	})
}

// MinuteTaskRequest содержит данные задачи при создании минуты
type MinuteTaskRequest struct {
	Description string     `json:"description" binding:"required"`
	Responsible string     `json:"responsible"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateMinute создает минуту совещания с задачами
// POST /api/minutes
func CreateMinute(c *gin.Context) {
	companyID := getCompanyIDFromContext(c)

	var req struct {
		ProjectID   uint                `json:"project_id" binding:"required"`
		Title       string              `json:"title" binding:"required,min=2,max=200"`
		MeetingDate time.Time           `json:"meeting_date" binding:"required"`
		Notes       string              `json:"notes"`
		Attendees   string              `json:"attendees"`
		Tasks       []MinuteTaskRequest `json:"tasks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	// Проект должен принадлежать текущей компании
	var project models.Project
	if err := database.DB.Where("id = ? AND company_id = ?", req.ProjectID, companyID).
		First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Проект не найден",
		})
		return
	}

	minute := models.Minute{
		ProjectID:   project.ID,
		Title:       req.Title,
		MeetingDate: req.MeetingDate,
		Notes:       req.Notes,
		Attendees:   req.Attendees,
		CompanyID:   companyID,
	}
	for _, task := range req.Tasks {
		minute.Tasks = append(minute.Tasks, models.MinuteTask{
			Description: task.Description,
			Responsible: task.Responsible,
			DueDate:     task.DueDate,
			Status:      models.TaskStatusOpen,
			CompanyID:   companyID,
		})
	}

	if err := database.DB.Create(&minute).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка создания минуты",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   minute,
	})
}

// UpdateMinuteTask обновляет статус задачи из минуты
// PUT /api/minute-tasks/:id
func UpdateMinuteTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный ID задачи",
		})
		return
	}

	var task models.MinuteTask
	if err := database.DB.Where("id = ? AND company_id = ?", uint(id), getCompanyIDFromContext(c)).
		First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Задача не найдена",
		})
		return
	}

	var req struct {
		Status      string     `json:"status" binding:"required,oneof=open in_progress done"`
		Responsible string     `json:"responsible"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Неверный формат данных",
		})
		return
	}

	task.Status = req.Status
	if req.Responsible != "" {
		task.Responsible = req.Responsible
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := database.DB.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Ошибка обновления задачи",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   task,
	})
}
