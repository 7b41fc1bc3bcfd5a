package dto

import (
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
)

// SessionOptionResponse представляет вариант ответа для клиента.
// Флаг is_correct вариантов снимка наружу не выдается.
type SessionOptionResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// SessionQuestionResponse представляет вопрос сессии для клиента.
// Эталонный ответ free_text вопросов наружу не выдается.
type SessionQuestionResponse struct {
	QuestionID   uint                    `json:"question_id"`
	Text         string                  `json:"text"`
	Type         string                  `json:"type"`
	CodeSnippet  string                  `json:"code_snippet,omitempty"`
	MoreInfoLink string                  `json:"more_info_link,omitempty"`
	Options      []SessionOptionResponse `json:"options,omitempty"`
}

// SessionResponse представляет состояние квиз-сессии для клиента
type SessionResponse struct {
	Token           string                    `json:"token"`
	QuizID          uint                      `json:"quiz_id"`
	AttemptNumber   int                       `json:"attempt_number"`
	CurrentIndex    int                       `json:"current_index"`
	AllowNavigation bool                      `json:"allow_navigation"`
	Questions       []SessionQuestionResponse `json:"questions"`
	Answers         []entity.SessionAnswer    `json:"answers"`
	StartedAt       time.Time                 `json:"started_at"`
	// Ровно один из таймеров активен; неактивный равен -1
	RemainingTotalSeconds    int `json:"remaining_total_seconds"`
	RemainingQuestionSeconds int `json:"remaining_question_seconds"`
}

// AttemptResponse представляет сохранённую попытку для клиента
type AttemptResponse struct {
	ID             uint      `json:"id"`
	QuizID         uint      `json:"quiz_id"`
	AttemptNumber  int       `json:"attempt_number"`
	Result         int       `json:"result"`
	TotalQuestions int       `json:"total_questions"`
	ScorePercent   float64   `json:"score_percent"`
	TimeSpentSec   int       `json:"time_spent_sec"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewSessionResponse создает DTO для сессии, скрывая правильные ответы
func NewSessionResponse(session *entity.QuizSession) *SessionResponse {
	if session == nil {
		return nil
	}

	now := time.Now()
	questions := make([]SessionQuestionResponse, len(session.Questions))
	for i := range session.Questions {
		q := &session.Questions[i]
		options := make([]SessionOptionResponse, len(q.Options))
		for j, opt := range q.Options {
			options[j] = SessionOptionResponse{ID: opt.ID, Text: opt.Text}
		}
		questions[i] = SessionQuestionResponse{
			QuestionID:   q.QuestionID,
			Text:         q.Text,
			Type:         q.Type,
			CodeSnippet:  q.CodeSnippet,
			MoreInfoLink: q.MoreInfoLink,
			Options:      options,
		}
	}

	return &SessionResponse{
		Token:                    session.Token,
		QuizID:                   session.QuizID,
		AttemptNumber:            session.AttemptNumber,
		CurrentIndex:             session.CurrentIndex,
		AllowNavigation:          session.AllowNavigation,
		Questions:                questions,
		Answers:                  session.Answers,
		StartedAt:                session.StartedAt,
		RemainingTotalSeconds:    session.RemainingTotalSeconds(now),
		RemainingQuestionSeconds: session.RemainingSecondsForCurrentQuestion(now),
	}
}

// NewAttemptResponse создает DTO для попытки
func NewAttemptResponse(test *entity.Test) *AttemptResponse {
	if test == nil {
		return nil
	}
	return &AttemptResponse{
		ID:             test.ID,
		QuizID:         test.QuizID,
		AttemptNumber:  test.AttemptNumber,
		Result:         test.Result,
		TotalQuestions: test.TotalQuestions,
		ScorePercent:   test.ScorePercent(),
		TimeSpentSec:   test.TimeSpentSec,
		CreatedAt:      test.CreatedAt,
	}
}
