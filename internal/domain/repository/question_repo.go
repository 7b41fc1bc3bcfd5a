package repository

import (
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами и их вариантами
type QuestionRepository interface {
	// Create сохраняет вопрос вместе с вариантами ответа
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetByQuizID возвращает вопросы викторины с вариантами ответа.
	// Порядок из БД не важен: движок сессии перемешивает вопросы сам.
	GetByQuizID(quizID uint) ([]entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error
}
