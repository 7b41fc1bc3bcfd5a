package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/service"
)

// CourseHandler обрабатывает запросы курсов и записей
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler создает новый обработчик курсов
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CreateCourseRequest представляет запрос на создание курса
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	IsPublished bool   `json:"is_published"`
}

// CreateCourse обрабатывает POST /api/courses (только админ)
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := &entity.Course{
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished,
	}
	if err := h.courseService.CreateCourse(course); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// GetCourse обрабатывает GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)

	course, err := h.courseService.GetCourse(courseID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// ListCourses обрабатывает GET /api/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	courses, total, err := h.courseService.ListCourses(limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "total": total, "limit": limit, "offset": offset})
}

// Enroll обрабатывает POST /api/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.courseService.Enroll(userID, courseID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrolled"})
}

// RecordDiscussionPost обрабатывает POST /api/courses/:id/discussion-activity.
// Сами обсуждения живут во внешней подсистеме; сюда приходит только факт
// поста, питающий XP и стрики.
func (h *CourseHandler) RecordDiscussionPost(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.courseService.RecordDiscussionPost(c.Request.Context(), userID, courseID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity recorded"})
}

func (h *CourseHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if apperrors.IsForbidden(err) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in CourseHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
