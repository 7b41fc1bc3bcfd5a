package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/service"
)

// AssignmentHandler обрабатывает запросы заданий и сдач
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler создает новый обработчик заданий
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// CreateAssignmentRequest представляет запрос на создание задания
type CreateAssignmentRequest struct {
	CourseID    uint       `json:"course_id" binding:"required"`
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description" binding:"omitempty"`
	MaxPoints   int        `json:"max_points" binding:"omitempty,min=1"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// CreateAssignment обрабатывает POST /api/assignments (только админ)
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment := &entity.Assignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		MaxPoints:   req.MaxPoints,
		DueAt:       req.DueAt,
	}
	if err := h.assignmentService.CreateAssignment(assignment); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// ListByCourse обрабатывает GET /api/courses/:id/assignments
func (h *AssignmentHandler) ListByCourse(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)

	assignments, err := h.assignmentService.ListByCourse(courseID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// SubmitRequest представляет запрос на сдачу задания
type SubmitRequest struct {
	Content string `json:"content" binding:"required"`
}

// Submit обрабатывает POST /api/assignments/:id/submissions
func (h *AssignmentHandler) Submit(c *gin.Context) {
	assignmentID := c.MustGet("assignmentID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.assignmentService.SubmitAssignment(c.Request.Context(), assignmentID, userID, req.Content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// GradeRequest представляет запрос на ручную оценку сдачи
type GradeRequest struct {
	Score    float64 `json:"score" binding:"min=0"`
	Feedback string  `json:"feedback,omitempty"`
}

// Grade обрабатывает POST /api/submissions/:id/grade (только админ)
func (h *AssignmentHandler) Grade(c *gin.Context) {
	submissionID := c.MustGet("submissionID").(uint)

	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.assignmentService.GradeManually(c.Request.Context(), submissionID, req.Score, req.Feedback)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// GradeWithAI обрабатывает POST /api/submissions/:id/grade/ai (только админ)
func (h *AssignmentHandler) GradeWithAI(c *gin.Context) {
	submissionID := c.MustGet("submissionID").(uint)

	submission, err := h.assignmentService.GradeWithAI(c.Request.Context(), submissionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// Approve обрабатывает POST /api/submissions/:id/approve (только админ)
func (h *AssignmentHandler) Approve(c *gin.Context) {
	submissionID := c.MustGet("submissionID").(uint)

	submission, err := h.assignmentService.ApproveSubmission(c.Request.Context(), submissionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// RejectRequest представляет запрос на отклонение сдачи
type RejectRequest struct {
	Feedback string `json:"feedback,omitempty"`
}

// Reject обрабатывает POST /api/submissions/:id/reject (только админ)
func (h *AssignmentHandler) Reject(c *gin.Context) {
	submissionID := c.MustGet("submissionID").(uint)

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.assignmentService.RejectSubmission(submissionID, req.Feedback)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (h *AssignmentHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if apperrors.IsForbidden(err) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AssignmentHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
