package dto

import (
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
)

// OptionResponse представляет вариант ответа для клиента.
// Флаг is_correct включается только в админских ответах.
type OptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID           uint             `json:"id"`
	Text         string           `json:"text"`
	Type         string           `json:"type"`
	CodeSnippet  string           `json:"code_snippet,omitempty"`
	MoreInfoLink string           `json:"more_info_link,omitempty"`
	Options      []OptionResponse `json:"options,omitempty"`
}

// QuizResponse представляет викторину в формате для ответа клиенту
type QuizResponse struct {
	ID                      uint               `json:"id"`
	Title                   string             `json:"title"`
	Description             string             `json:"description,omitempty"`
	IsPublished             bool               `json:"is_published"`
	CourseID                *uint              `json:"course_id,omitempty"`
	AttemptsAllowed         int                `json:"attempts_allowed"`
	TotalDurationSec        int                `json:"total_duration_sec"`
	DurationPerQuestionSec  int                `json:"duration_per_question_sec"`
	ShowOneQuestionAtATime  bool               `json:"show_one_question_at_a_time"`
	AllowQuestionNavigation bool               `json:"allow_question_navigation"`
	NavigatorPosition       string             `json:"navigator_position"`
	ShowProgressBar         bool               `json:"show_progress_bar"`
	AvailableFrom           *time.Time         `json:"available_from,omitempty"`
	AvailableUntil          *time.Time         `json:"available_until,omitempty"`
	QuestionCount           int                `json:"question_count"`
	Questions               []QuestionResponse `json:"questions,omitempty"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

// PaginatedQuizResponse представляет пагинированный список викторин
type PaginatedQuizResponse struct {
	Quizzes []*QuizResponse `json:"quizzes"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// NewQuestionResponse создает DTO для вопроса.
// includeCorrect управляет выдачей флагов правильности (только админам).
func NewQuestionResponse(q *entity.Question, includeCorrect bool) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i, opt := range q.Options {
		options[i] = OptionResponse{ID: opt.ID, Text: opt.Text}
		if includeCorrect {
			isCorrect := opt.IsCorrect
			options[i].IsCorrect = &isCorrect
		}
	}
	return QuestionResponse{
		ID:           q.ID,
		Text:         q.Text,
		Type:         q.Type,
		CodeSnippet:  q.CodeSnippet,
		MoreInfoLink: q.MoreInfoLink,
		Options:      options,
	}
}

// NewQuizResponse создает DTO для викторины
func NewQuizResponse(quiz *entity.Quiz, includeCorrect bool) *QuizResponse {
	if quiz == nil {
		return nil
	}

	questions := make([]QuestionResponse, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[i] = NewQuestionResponse(&quiz.Questions[i], includeCorrect)
	}

	return &QuizResponse{
		ID:                      quiz.ID,
		Title:                   quiz.Title,
		Description:             quiz.Description,
		IsPublished:             quiz.IsPublished,
		CourseID:                quiz.CourseID,
		AttemptsAllowed:         quiz.AttemptsAllowed,
		TotalDurationSec:        quiz.TotalDurationSec,
		DurationPerQuestionSec:  quiz.DurationPerQuestionSec,
		ShowOneQuestionAtATime:  quiz.ShowOneQuestionAtATime,
		AllowQuestionNavigation: quiz.AllowQuestionNavigation,
		NavigatorPosition:       quiz.NavigatorPosition,
		ShowProgressBar:         quiz.ShowProgressBar,
		AvailableFrom:           quiz.AvailableFrom,
		AvailableUntil:          quiz.AvailableUntil,
		QuestionCount:           len(quiz.Questions),
		Questions:               questions,
		CreatedAt:               quiz.CreatedAt,
		UpdatedAt:               quiz.UpdatedAt,
	}
}

// NewPaginatedQuizResponse создает DTO для списка викторин (без вопросов)
func NewPaginatedQuizResponse(quizzes []entity.Quiz, total int64, limit, offset int) *PaginatedQuizResponse {
	items := make([]*QuizResponse, len(quizzes))
	for i := range quizzes {
		quiz := quizzes[i]
		quiz.Questions = nil
		items[i] = NewQuizResponse(&quiz, false)
	}
	return &PaginatedQuizResponse{
		Quizzes: items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
}
