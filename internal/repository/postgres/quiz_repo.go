package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий викторин
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новую викторину
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID возвращает викторину по ID
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithQuestions возвращает викторину вместе с вопросами и вариантами
func (r *QuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.Preload("Questions.Options").First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// Update обновляет информацию о викторине
func (r *QuizRepo) Update(quiz *entity.Quiz) error {
	return r.db.Save(quiz).Error
}

// SetPublished точечно обновляет флаг публикации без полного Save
func (r *QuizRepo) SetPublished(quizID uint, published bool) error {
	return r.db.Model(&entity.Quiz{}).
		Where("id = ?", quizID).
		Update("is_published", published).
		Error
}

// AttachQuestions добавляет вопросы в many-to-many связь викторины
func (r *QuizRepo) AttachQuestions(quizID uint, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}

	questions := make([]entity.Question, 0, len(questionIDs))
	for _, id := range questionIDs {
		questions = append(questions, entity.Question{ID: id})
	}
	return r.db.Model(&entity.Quiz{ID: quizID}).
		Association("Questions").
		Append(questions)
}

// List возвращает список викторин с фильтрами и total count
func (r *QuizRepo) List(filters repository.QuizFilters, limit, offset int) ([]entity.Quiz, int64, error) {
	var quizzes []entity.Quiz
	var total int64

	query := r.db.Model(&entity.Quiz{})

	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("id DESC").Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}

// ListIDsByCourse возвращает ID опубликованных викторин курса
func (r *QuizRepo) ListIDsByCourse(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Quiz{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Pluck("id", &ids).Error
	return ids, err
}

// Delete удаляет викторину
func (r *QuizRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Quiz{}, id).Error
}
