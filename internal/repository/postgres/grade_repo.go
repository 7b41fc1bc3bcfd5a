package postgres

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// GradeRepo реализует repository.GradeRepository
type GradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo создает новый репозиторий оценок
func NewGradeRepo(db *gorm.DB) *GradeRepo {
	return &GradeRepo{db: db}
}

// GetByUserAndCourse возвращает оценку пары (user, course)
func (r *GradeRepo) GetByUserAndCourse(userID, courseID uint) (*entity.Grade, error) {
	var grade entity.Grade
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&grade).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &grade, nil
}

// ListByCourse возвращает все оценки курса (для gradebook)
func (r *GradeRepo) ListByCourse(courseID uint) ([]entity.Grade, error) {
	var grades []entity.Grade
	err := r.db.Where("course_id = ?", courseID).Order("user_id").Find(&grades).Error
	return grades, err
}

// SaveCalculated пересчитывает строку оценки под блокировкой: строка
// берётся по SELECT ... FOR UPDATE (лениво создаётся при отсутствии),
// затем compute заполняет производные поля, затем они записываются.
// Чтение попыток и сдач внутри compute происходит уже после захвата
// блокировки, так что параллельные пересчёты одной пары видят данные
// друг друга и не теряют обновления. Параллельный SetParticipation
// той же строки ждёт коммита на той же блокировке.
func (r *GradeRepo) SaveCalculated(userID, courseID uint, compute func(grade *entity.Grade) error) (*entity.Grade, error) {
	grade, err := r.recalculateTx(userID, courseID, compute)
	if err != nil && IsUniqueViolation(err) {
		// Проигравший гонки ленивого создания повторяет транзакцию:
		// строка победителя уже есть и берётся под блокировку
		return r.recalculateTx(userID, courseID, compute)
	}
	return grade, err
}

func (r *GradeRepo) recalculateTx(userID, courseID uint, compute func(grade *entity.Grade) error) (*entity.Grade, error) {
	tx := r.db.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			log.Printf("PANIC recovered during SaveCalculated transaction: %v", rec)
		}
	}()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var grade entity.Grade
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&grade).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Ленивое создание при первом релевантном событии; вставленная
		// строка заблокирована нашей транзакцией до коммита
		grade = entity.Grade{UserID: userID, CourseID: courseID}
		if err := tx.Create(&grade).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	case err != nil:
		tx.Rollback()
		return nil, fmt.Errorf("failed to lock grade row: %w", err)
	}

	if err := compute(&grade); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Метрика участия не входит в updates: ею владеет SetParticipation
	updates := map[string]interface{}{
		"quiz_average":          grade.QuizAverage,
		"assignment_average":    grade.AssignmentAverage,
		"final_grade":           grade.FinalGrade,
		"completed_quizzes":     grade.CompletedQuizzes,
		"total_quizzes":         grade.TotalQuizzes,
		"completed_assignments": grade.CompletedAssignments,
		"total_assignments":     grade.TotalAssignments,
		"calculated_at":         grade.CalculatedAt,
	}
	if err := tx.Model(&entity.Grade{}).
		Where("id = ?", grade.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update grade row: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

// SetParticipation сохраняет внешне вычисленную метрику участия
func (r *GradeRepo) SetParticipation(userID, courseID uint, score *float64) error {
	now := time.Now()
	grade := &entity.Grade{
		UserID:             userID,
		CourseID:           courseID,
		ParticipationScore: score,
		CalculatedAt:       &now,
	}

	result := r.db.Model(&entity.Grade{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("participation_score", score)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Строки ещё нет - создаём лениво
		if err := r.db.Create(grade).Error; err != nil && !IsUniqueViolation(err) {
			return err
		}
	}
	return nil
}
