package postgres

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// TestRepo реализует repository.TestRepository
type TestRepo struct {
	db *gorm.DB
}

// NewTestRepo создает новый репозиторий попыток
func NewTestRepo(db *gorm.DB) *TestRepo {
	return &TestRepo{db: db}
}

// CountSubmitted возвращает количество отправленных попыток пользователя
// по викторине
func (r *TestRepo) CountSubmitted(userID, quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Test{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

// SubmitAttempt атомарно сохраняет попытку и её ответы.
// Двухфазная запись: Test создаётся с result = 0, каждая строка ответа
// создаётся до патча is_correct, в конце result патчится суммой правильных.
// Нарушение уникального индекса (user_id, quiz_id, attempt_number)
// мапится на ErrConflict - это закрывает гонку параллельной отправки
// дублирующей попытки (две вкладки прошли проверку лимита одновременно).
func (r *TestRepo) SubmitAttempt(test *entity.Test, answers []entity.TestAnswer, verdicts []bool) error {
	if len(answers) != len(verdicts) {
		return fmt.Errorf("answers/verdicts length mismatch: %d != %d", len(answers), len(verdicts))
	}

	tx := r.db.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			log.Printf("PANIC recovered during SubmitAttempt transaction: %v", rec)
		}
	}()
	if tx.Error != nil {
		return tx.Error
	}

	// Фаза 1: попытка с placeholder result = 0
	test.Result = 0
	if err := tx.Create(test).Error; err != nil {
		tx.Rollback()
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate attempt #%d for user #%d quiz #%d",
				apperrors.ErrConflict, test.AttemptNumber, test.UserID, test.QuizID)
		}
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	correctCount := 0
	for i := range answers {
		answers[i].TestID = test.ID
		answers[i].UserID = test.UserID
		answers[i].IsCorrect = false

		if err := tx.Create(&answers[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save answer for question #%d: %w", answers[i].QuestionID, err)
		}

		// Патчим вердикт уже существующей строки
		if verdicts[i] {
			if err := tx.Model(&entity.TestAnswer{}).
				Where("id = ?", answers[i].ID).
				Update("is_correct", true).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to patch answer verdict: %w", err)
			}
			answers[i].IsCorrect = true
			correctCount++
		}
	}

	// Фаза 2: патчим result попытки суммой правильных
	if err := tx.Model(&entity.Test{}).
		Where("id = ?", test.ID).
		Update("result", correctCount).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to patch attempt result: %w", err)
	}
	test.Result = correctCount

	return tx.Commit().Error
}

// GetByID возвращает попытку по ID
func (r *TestRepo) GetByID(id uint) (*entity.Test, error) {
	var test entity.Test
	err := r.db.First(&test, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// GetAnswers возвращает ответы попытки
func (r *TestRepo) GetAnswers(testID uint) ([]entity.TestAnswer, error) {
	var answers []entity.TestAnswer
	err := r.db.Where("test_id = ?", testID).Order("id").Find(&answers).Error
	return answers, err
}

// ListByUserAndQuizIDs возвращает попытки пользователя по перечисленным викторинам
func (r *TestRepo) ListByUserAndQuizIDs(userID uint, quizIDs []uint) ([]entity.Test, error) {
	if len(quizIDs) == 0 {
		return []entity.Test{}, nil
	}
	var tests []entity.Test
	err := r.db.Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).
		Order("created_at").
		Find(&tests).Error
	return tests, err
}

// ListByUser возвращает попытки пользователя с пагинацией
func (r *TestRepo) ListByUser(userID uint, limit, offset int) ([]entity.Test, int64, error) {
	var tests []entity.Test
	var total int64

	query := r.db.Model(&entity.Test{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&tests).Error
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

// CountDistinctQuizzes возвращает число различных викторин с попытками пользователя
func (r *TestRepo) CountDistinctQuizzes(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Test{}).
		Where("user_id = ?", userID).
		Distinct("quiz_id").
		Count(&count).Error
	return count, err
}

// CountPerfect возвращает число попыток пользователя с максимальным результатом
func (r *TestRepo) CountPerfect(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Test{}).
		Where("user_id = ? AND total_questions > 0 AND result = total_questions", userID).
		Count(&count).Error
	return count, err
}
