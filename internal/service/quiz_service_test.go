package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// Моки репозиториев переиспользуются из session_service_test.go:
// QuizService работает с теми же интерфейсами.

func newQuizServiceFixture() (*QuizService, *MockQuizRepoForSessionService, *MockQuestionRepoForSessionService) {
	quizRepo := new(MockQuizRepoForSessionService)
	questionRepo := new(MockQuestionRepoForSessionService)
	return NewQuizService(quizRepo, questionRepo), quizRepo, questionRepo
}

// ============================================================================
// CreateQuiz
// ============================================================================

func TestCreateQuiz_DefaultsApplied(t *testing.T) {
	service, quizRepo, _ := newQuizServiceFixture()
	quizRepo.On("Create", mock.Anything).Return(nil)

	quiz := &entity.Quiz{Title: "Основы Go", IsPublished: true}
	err := service.CreateQuiz(quiz)

	require.NoError(t, err)
	// Новая викторина всегда черновик, публикация - отдельный шаг
	assert.False(t, quiz.IsPublished)
	assert.Equal(t, 3, quiz.AttemptsAllowed)
	assert.Equal(t, entity.NavigatorPositionBottom, quiz.NavigatorPosition)
}

func TestCreateQuiz_Validation(t *testing.T) {
	service, quizRepo, _ := newQuizServiceFixture()

	err := service.CreateQuiz(&entity.Quiz{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Оба режима времени сразу недопустимы
	err = service.CreateQuiz(&entity.Quiz{
		Title:                  "Основы Go",
		TotalDurationSec:       600,
		DurationPerQuestionSec: 30,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	quizRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// ============================================================================
// AddQuestions
// ============================================================================

func TestAddQuestions_CreatesAndAttaches(t *testing.T) {
	service, quizRepo, questionRepo := newQuizServiceFixture()
	quizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1, Title: "Основы Go"}, nil)
	questionRepo.On("CreateBatch", mock.Anything).
		Run(func(args mock.Arguments) {
			// БД проставляет ID при вставке
			questions := args.Get(0).([]entity.Question)
			for i := range questions {
				questions[i].ID = uint(100 + i)
			}
		}).
		Return(nil)
	quizRepo.On("AttachQuestions", uint(1), []uint{100, 101}).Return(nil)

	questions := []entity.Question{
		{
			Text:    "Вопрос 1",
			Type:    entity.QuestionTypeSingleChoice,
			Options: []entity.QuestionOption{{Text: "A", IsCorrect: true}, {Text: "B"}},
		},
		{
			Text:          "Вопрос 2",
			Type:          entity.QuestionTypeFreeText,
			CorrectAnswer: "Paris",
		},
	}
	err := service.AddQuestions(1, questions)

	require.NoError(t, err)
	quizRepo.AssertCalled(t, "AttachQuestions", uint(1), []uint{100, 101})
}

func TestAddQuestions_MalformedQuestionRejected(t *testing.T) {
	service, quizRepo, questionRepo := newQuizServiceFixture()
	quizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1}, nil)

	// single_choice без правильного варианта
	err := service.AddQuestions(1, []entity.Question{
		{
			Text:    "Вопрос без правильного варианта",
			Type:    entity.QuestionTypeSingleChoice,
			Options: []entity.QuestionOption{{Text: "A"}, {Text: "B"}},
		},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	questionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything)
}

func TestAddQuestions_EmptyBatchRejected(t *testing.T) {
	service, quizRepo, _ := newQuizServiceFixture()

	err := service.AddQuestions(1, nil)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	quizRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

// ============================================================================
// PublishQuiz
// ============================================================================

func TestPublishQuiz_RequiresWellFormedQuestions(t *testing.T) {
	service, quizRepo, questionRepo := newQuizServiceFixture()
	quizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1, Title: "Основы Go"}, nil)
	questionRepo.On("GetByQuizID", uint(1)).Return([]entity.Question{
		{ID: 1, Type: entity.QuestionTypeFreeText}, // без эталонного ответа
	}, nil)

	err := service.PublishQuiz(1)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	quizRepo.AssertNotCalled(t, "SetPublished", mock.Anything, mock.Anything)
}

func TestPublishQuiz_RequiresQuestions(t *testing.T) {
	service, quizRepo, questionRepo := newQuizServiceFixture()
	quizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1, Title: "Основы Go"}, nil)
	questionRepo.On("GetByQuizID", uint(1)).Return([]entity.Question{}, nil)

	err := service.PublishQuiz(1)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPublishQuiz_Success(t *testing.T) {
	service, quizRepo, questionRepo := newQuizServiceFixture()
	quizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1, Title: "Основы Go"}, nil)
	questionRepo.On("GetByQuizID", uint(1)).Return([]entity.Question{
		{
			ID:      1,
			Type:    entity.QuestionTypeSingleChoice,
			Options: []entity.QuestionOption{{ID: 1, IsCorrect: true}},
		},
	}, nil)
	quizRepo.On("SetPublished", uint(1), true).Return(nil)

	err := service.PublishQuiz(1)

	require.NoError(t, err)
	quizRepo.AssertCalled(t, "SetPublished", uint(1), true)
}

// ============================================================================
// ListQuizzes
// ============================================================================

func TestListQuizzes_LimitClamped(t *testing.T) {
	service, quizRepo, _ := newQuizServiceFixture()
	quizRepo.On("List", mock.Anything, 20, 0).Return([]entity.Quiz{}, int64(0), nil)

	_, _, err := service.ListQuizzes(repository.QuizFilters{}, 0, -5)
	require.NoError(t, err)
	_, _, err = service.ListQuizzes(repository.QuizFilters{PublishedOnly: true}, 500, 0)
	require.NoError(t, err)

	quizRepo.AssertNumberOfCalls(t, "List", 2)
}
