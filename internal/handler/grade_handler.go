package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/service"
)

// GradeHandler обрабатывает запросы журнала оценок
type GradeHandler struct {
	gradeService *service.GradeService
	userRepo     repository.UserRepository
}

// NewGradeHandler создает новый обработчик оценок
func NewGradeHandler(gradeService *service.GradeService, userRepo repository.UserRepository) *GradeHandler {
	return &GradeHandler{
		gradeService: gradeService,
		userRepo:     userRepo,
	}
}

// GetMyGrade обрабатывает GET /api/courses/:id/grades/me
func (h *GradeHandler) GetMyGrade(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)
	userID := c.MustGet("user_id").(uint)

	grade, err := h.gradeService.GetGrade(userID, courseID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grade)
}

// GetGradebook обрабатывает GET /api/courses/:id/grades (только админ)
func (h *GradeHandler) GetGradebook(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)

	grades, err := h.gradeService.ListByCourse(courseID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course_id": courseID, "grades": grades})
}

// Recalculate обрабатывает POST /api/courses/:id/grades/:userId/recalculate (только админ)
func (h *GradeHandler) Recalculate(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)
	userID := c.MustGet("userID").(uint)

	grade, err := h.gradeService.Recalculate(userID, courseID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grade)
}

// SetParticipationRequest представляет запрос на установку метрики участия
type SetParticipationRequest struct {
	Score *float64 `json:"score" binding:"omitempty,min=0,max=100"`
}

// SetParticipation обрабатывает PUT /api/courses/:id/grades/:userId/participation
// (только админ). Метрика приходит от внешнего коллаборатора как есть.
func (h *GradeHandler) SetParticipation(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)
	userID := c.MustGet("userID").(uint)

	var req SetParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grade, err := h.gradeService.SetParticipationScore(userID, courseID, req.Score)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grade)
}

// ExportGradebook обрабатывает GET /api/courses/:id/grades/export?format=xlsx|csv
// (только админ)
func (h *GradeHandler) ExportGradebook(c *gin.Context) {
	courseID := c.MustGet("courseID").(uint)

	grades, err := h.gradeService.ListByCourse(courseID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	filename := fmt.Sprintf("gradebook_course_%d", courseID)
	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		h.exportCSV(c, filename, grades)
	case "xlsx":
		h.exportXLSX(c, filename, grades)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or csv"})
	}
}

func (h *GradeHandler) exportXLSX(c *gin.Context, filename string, grades []entity.Grade) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Оценки"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[GradeHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{
		"Пользователь", "Email", "Викторины (%)", "Задания (%)", "Участие (%)",
		"Итог (%)", "Викторин пройдено", "Викторин всего", "Заданий сдано", "Заданий всего",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[GradeHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range grades {
		g := &grades[i]
		username, email := h.resolveUser(g.UserID)
		row := []interface{}{
			username, email,
			floatCell(g.QuizAverage), floatCell(g.AssignmentAverage),
			floatCell(g.ParticipationScore), floatCell(g.FinalGrade),
			g.CompletedQuizzes, g.TotalQuizzes,
			g.CompletedAssignments, g.TotalAssignments,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[GradeHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[GradeHandler] Ошибка Flush StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize Excel file"})
		return
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[GradeHandler] Ошибка записи Excel в ответ: %v", err)
	}
}

func (h *GradeHandler) exportCSV(c *gin.Context, filename string, grades []entity.Grade) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	header := []string{
		"username", "email", "quiz_average", "assignment_average", "participation_score",
		"final_grade", "completed_quizzes", "total_quizzes", "completed_assignments", "total_assignments",
	}
	if err := w.Write(header); err != nil {
		log.Printf("[GradeHandler] Ошибка записи CSV-заголовка: %v", err)
		return
	}

	for i := range grades {
		g := &grades[i]
		username, email := h.resolveUser(g.UserID)
		record := []string{
			username, email,
			floatField(g.QuizAverage), floatField(g.AssignmentAverage),
			floatField(g.ParticipationScore), floatField(g.FinalGrade),
			strconv.Itoa(g.CompletedQuizzes), strconv.Itoa(g.TotalQuizzes),
			strconv.Itoa(g.CompletedAssignments), strconv.Itoa(g.TotalAssignments),
		}
		if err := w.Write(record); err != nil {
			log.Printf("[GradeHandler] Ошибка записи CSV-строки: %v", err)
			return
		}
	}
}

// resolveUser возвращает имя и email пользователя для экспорта;
// удалённый пользователь отображается по ID
func (h *GradeHandler) resolveUser(userID uint) (string, string) {
	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Sprintf("user_%d", userID), ""
	}
	return user.Username, user.Email
}

func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if apperrors.IsForbidden(err) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in GradeHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
