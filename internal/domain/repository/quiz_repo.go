package repository

import (
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// QuizFilters определяет фильтры для поиска викторин
type QuizFilters struct {
	CourseID      *uint  // Фильтр по курсу
	PublishedOnly bool   // Только опубликованные
	Search        string // Поиск по названию/описанию
}

// QuizRepository определяет методы для работы с определениями викторин
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	GetWithQuestions(id uint) (*entity.Quiz, error)
	Update(quiz *entity.Quiz) error
	// SetPublished точечно обновляет флаг публикации без full Save
	SetPublished(quizID uint, published bool) error
	// AttachQuestions добавляет вопросы в many-to-many связь викторины
	AttachQuestions(quizID uint, questionIDs []uint) error
	List(filters QuizFilters, limit, offset int) ([]entity.Quiz, int64, error)
	// ListIDsByCourse возвращает ID опубликованных викторин курса
	// (источник totalQuizzes для агрегации оценок)
	ListIDsByCourse(courseID uint) ([]uint, error)
	Delete(id uint) error
}
