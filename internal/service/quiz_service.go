package service

import (
	"fmt"
	"log"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// QuizService предоставляет методы для авторинга викторин и вопросов
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
}

// NewQuizService создает новый сервис викторин
func NewQuizService(quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
	}
}

// CreateQuiz создает новую викторину (черновик, без публикации)
func (s *QuizService) CreateQuiz(quiz *entity.Quiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("quiz title is required: %w", apperrors.ErrValidation)
	}
	if !quiz.HasValidTiming() {
		return fmt.Errorf("at most one timing mode may be set: %w", apperrors.ErrValidation)
	}
	if quiz.AttemptsAllowed <= 0 {
		quiz.AttemptsAllowed = 3
	}
	if quiz.NavigatorPosition == "" {
		quiz.NavigatorPosition = entity.NavigatorPositionBottom
	}
	// Публикация - отдельный шаг со своей валидацией
	quiz.IsPublished = false
	return s.quizRepo.Create(quiz)
}

// UpdateQuiz обновляет настройки викторины
func (s *QuizService) UpdateQuiz(quiz *entity.Quiz) error {
	if !quiz.HasValidTiming() {
		return fmt.Errorf("at most one timing mode may be set: %w", apperrors.ErrValidation)
	}
	return s.quizRepo.Update(quiz)
}

// GetQuiz возвращает викторину по ID
func (s *QuizService) GetQuiz(id uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(id)
}

// GetQuizWithQuestions возвращает викторину вместе с вопросами и вариантами
func (s *QuizService) GetQuizWithQuestions(id uint) (*entity.Quiz, error) {
	return s.quizRepo.GetWithQuestions(id)
}

// ListQuizzes возвращает викторины по фильтрам с пагинацией
func (s *QuizService) ListQuizzes(filters repository.QuizFilters, limit, offset int) ([]entity.Quiz, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.quizRepo.List(filters, limit, offset)
}

// AddQuestions создает вопросы и прикрепляет их к викторине.
// Каждый вопрос проверяется на корректность формы: у вопросов с вариантами
// должен быть хотя бы один правильный вариант, free_text несёт эталон.
func (s *QuizService) AddQuestions(quizID uint, questions []entity.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("at least one question is required: %w", apperrors.ErrValidation)
	}
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return err
	}

	for i := range questions {
		if questions[i].Type == "" {
			questions[i].Type = entity.QuestionTypeSingleChoice
		}
		if !questions[i].IsWellFormed() {
			return fmt.Errorf("question %d is malformed for type %s: %w",
				i, questions[i].Type, apperrors.ErrValidation)
		}
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return err
	}

	ids := make([]uint, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}
	if err := s.quizRepo.AttachQuestions(quizID, ids); err != nil {
		return err
	}

	log.Printf("[QuizService] К викторине %d добавлено %d вопросов", quizID, len(questions))
	return nil
}

// PublishQuiz публикует викторину, проверяя инварианты публикации:
// хотя бы один корректный вопрос и непротиворечивая политика времени
func (s *QuizService) PublishQuiz(quizID uint) error {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return err
	}
	if !quiz.HasValidTiming() {
		return fmt.Errorf("at most one timing mode may be set: %w", apperrors.ErrValidation)
	}

	questions, err := s.questionRepo.GetByQuizID(quizID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("published quiz must have at least one question: %w", apperrors.ErrValidation)
	}
	for i := range questions {
		if !questions[i].IsWellFormed() {
			return fmt.Errorf("question %d is malformed: %w", questions[i].ID, apperrors.ErrValidation)
		}
	}

	return s.quizRepo.SetPublished(quizID, true)
}

// UnpublishQuiz снимает викторину с публикации
func (s *QuizService) UnpublishQuiz(quizID uint) error {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return err
	}
	return s.quizRepo.SetPublished(quizID, false)
}

// DeleteQuiz удаляет викторину
func (s *QuizService) DeleteQuiz(quizID uint) error {
	return s.quizRepo.Delete(quizID)
}
