package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	"github.com/yourusername/lms-api/internal/handler/dto"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// AttemptHandler обрабатывает запросы истории попыток
type AttemptHandler struct {
	testRepo repository.TestRepository
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(testRepo repository.TestRepository) *AttemptHandler {
	return &AttemptHandler{testRepo: testRepo}
}

// ListMyAttempts обрабатывает GET /api/attempts
func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	tests, total, err := h.testRepo.ListByUser(userID, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	attempts := make([]*dto.AttemptResponse, len(tests))
	for i := range tests {
		attempts[i] = dto.NewAttemptResponse(&tests[i])
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "total": total, "limit": limit, "offset": offset})
}

// GetAttempt обрабатывает GET /api/attempts/:id.
// Доступ только владельцу попытки или администратору; ответ включает
// сохранённые ответы с вердиктами.
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	userID := c.MustGet("user_id").(uint)
	role, _ := c.Get("role")

	test, err := h.testRepo.GetByID(attemptID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if test.UserID != userID && role != entity.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	answers, err := h.testRepo.GetAnswers(attemptID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt": dto.NewAttemptResponse(test),
		"answers": answers,
	})
}

func (h *AttemptHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AttemptHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
