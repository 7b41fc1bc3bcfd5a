package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create сохраняет вопрос вместе с вариантами ответа (gorm каскадно
// создаст Options через ассоциацию)
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch сохраняет несколько вопросов за один запрос
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

// GetByID возвращает вопрос с вариантами по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Preload("Options").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByQuizID возвращает вопросы викторины с вариантами ответа
func (r *QuestionRepo) GetByQuizID(quizID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Preload("Options").
		Joins("JOIN quiz_questions ON quiz_questions.question_id = questions.id").
		Where("quiz_questions.quiz_id = ?", quizID).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Update обновляет вопрос
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос (варианты удаляются каскадно)
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}
