package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	"github.com/yourusername/lms-api/internal/handler/dto"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// CreateQuizRequest представляет запрос на создание викторины
type CreateQuizRequest struct {
	Title                   string     `json:"title" binding:"required,min=3,max=200"`
	Description             string     `json:"description" binding:"omitempty,max=1000"`
	CourseID                *uint      `json:"course_id,omitempty"`
	AttemptsAllowed         int        `json:"attempts_allowed"`
	TotalDurationSec        int        `json:"total_duration_sec"`
	DurationPerQuestionSec  int        `json:"duration_per_question_sec"`
	ShowOneQuestionAtATime  *bool      `json:"show_one_question_at_a_time,omitempty"`
	AllowQuestionNavigation *bool      `json:"allow_question_navigation,omitempty"`
	NavigatorPosition       string     `json:"navigator_position,omitempty"`
	ShowProgressBar         *bool      `json:"show_progress_bar,omitempty"`
	AvailableFrom           *time.Time `json:"available_from,omitempty"`
	AvailableUntil          *time.Time `json:"available_until,omitempty"`
}

// CreateQuiz обрабатывает запрос на создание викторины
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz := &entity.Quiz{
		Title:                   req.Title,
		Description:             req.Description,
		CourseID:                req.CourseID,
		AttemptsAllowed:         req.AttemptsAllowed,
		TotalDurationSec:        req.TotalDurationSec,
		DurationPerQuestionSec:  req.DurationPerQuestionSec,
		ShowOneQuestionAtATime:  boolOrDefault(req.ShowOneQuestionAtATime, true),
		AllowQuestionNavigation: boolOrDefault(req.AllowQuestionNavigation, true),
		NavigatorPosition:       req.NavigatorPosition,
		ShowProgressBar:         boolOrDefault(req.ShowProgressBar, true),
		AvailableFrom:           req.AvailableFrom,
		AvailableUntil:          req.AvailableUntil,
	}
	if err := h.quizService.CreateQuiz(quiz); err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz, true))
}

// GetQuiz возвращает информацию о викторине с вопросами.
// Флаги правильности вариантов выдаются только администраторам.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuizWithQuestions(quizID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	role, _ := c.Get("role")
	includeCorrect := role == entity.RoleAdmin
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, includeCorrect))
}

// ListQuizzes возвращает список викторин с фильтрами и пагинацией.
// Студенты видят только опубликованные.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filters := repository.QuizFilters{
		Search: c.Query("search"),
	}
	if courseIDStr := c.Query("course_id"); courseIDStr != "" {
		courseID, err := strconv.ParseUint(courseIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course_id"})
			return
		}
		id := uint(courseID)
		filters.CourseID = &id
	}

	role, _ := c.Get("role")
	if role != entity.RoleAdmin {
		filters.PublishedOnly = true
	}

	quizzes, total, err := h.quizService.ListQuizzes(filters, limit, offset)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedQuizResponse(quizzes, total, limit, offset))
}

// AddQuestionsRequest представляет запрос на добавление вопросов
type AddQuestionsRequest struct {
	Questions []struct {
		Text          string `json:"text" binding:"required,min=3,max=1000"`
		Type          string `json:"type" binding:"omitempty,oneof=single_choice multi_select free_text"`
		CodeSnippet   string `json:"code_snippet,omitempty"`
		MoreInfoLink  string `json:"more_info_link,omitempty"`
		CorrectAnswer string `json:"correct_answer,omitempty"`
		Options       []struct {
			Text      string `json:"text" binding:"required,max=500"`
			IsCorrect bool   `json:"is_correct"`
		} `json:"options,omitempty"`
	} `json:"questions" binding:"required,min=1,dive"`
}

// AddQuestions обрабатывает запрос на добавление вопросов к викторине
func (h *QuizHandler) AddQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = entity.Question{
			Text:          q.Text,
			Type:          q.Type,
			CodeSnippet:   q.CodeSnippet,
			MoreInfoLink:  q.MoreInfoLink,
			CorrectAnswer: q.CorrectAnswer,
		}
		questions[i].Options = make([]entity.QuestionOption, len(q.Options))
		for j, opt := range q.Options {
			questions[i].Options[j] = entity.QuestionOption{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			}
		}
	}

	if err := h.quizService.AddQuestions(quizID, questions); err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Questions added", "count": len(questions)})
}

// PublishQuiz обрабатывает запрос на публикацию викторины
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.PublishQuiz(quizID); err != nil {
		h.handleQuizError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz published"})
}

// UnpublishQuiz обрабатывает запрос на снятие викторины с публикации
func (h *QuizHandler) UnpublishQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.UnpublishQuiz(quizID); err != nil {
		h.handleQuizError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz unpublished"})
}

// DeleteQuiz обрабатывает запрос на удаление викторины
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(quizID); err != nil {
		h.handleQuizError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

func (h *QuizHandler) handleQuizError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if apperrors.IsForbidden(err) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
