package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/handler/dto"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/service"
)

// SessionHandler обрабатывает запросы движка квиз-сессий
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// StartSession обрабатывает POST /api/quizzes/:id/sessions
func (h *SessionHandler) StartSession(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	session, err := h.sessionService.StartSession(quizID, userID, c.ClientIP())
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionResponse(session))
}

// GetSession обрабатывает GET /api/sessions/:token
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	session, err := h.sessionService.GetSession(c.Param("token"), userID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

// SetAnswerRequest представляет запрос на сохранение ответа.
// Форма полезной нагрузки обязана соответствовать типу вопроса.
type SetAnswerRequest struct {
	QuestionIndex int    `json:"question_index" binding:"min=0"`
	SelectedID    *uint  `json:"selected_id,omitempty"`
	SelectedIDs   []uint `json:"selected_ids,omitempty"`
	Text          string `json:"text,omitempty"`
}

// SetAnswer обрабатывает PUT /api/sessions/:token/answers
func (h *SessionHandler) SetAnswer(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req SetAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer := entity.SessionAnswer{
		SelectedID:  req.SelectedID,
		SelectedIDs: req.SelectedIDs,
		Text:        req.Text,
	}
	session, err := h.sessionService.SetAnswer(c.Param("token"), userID, req.QuestionIndex, answer)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

// NavigateRequest представляет запрос на переход к вопросу
type NavigateRequest struct {
	TargetIndex int `json:"target_index" binding:"min=0"`
}

// Navigate обрабатывает PUT /api/sessions/:token/position
func (h *SessionHandler) Navigate(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionService.Navigate(c.Param("token"), userID, req.TargetIndex)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

// ChangeQuestion обрабатывает POST /api/sessions/:token/next.
// На последнем вопросе продвижение завершает сессию и возвращает попытку.
func (h *SessionHandler) ChangeQuestion(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	session, test, err := h.sessionService.ChangeQuestion(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	if test != nil {
		c.JSON(http.StatusOK, gin.H{"submitted": true, "attempt": dto.NewAttemptResponse(test)})
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

// Submit обрабатывает POST /api/sessions/:token/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	test, err := h.sessionService.Submit(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(test))
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if apperrors.IsForbidden(err) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in SessionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
