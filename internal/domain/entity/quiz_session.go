package entity

import (
	"time"
)

// SessionOption - снимок варианта ответа в рамках сессии.
// Порядок вариантов уже случайный и фиксируется на всю сессию.
// Флаг IsCorrect никогда не покидает сервер (сессия живёт в Redis).
type SessionOption struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// SessionQuestion - снимок вопроса в рамках сессии.
// Сессия снимает копию вопроса при старте и не отслеживает
// последующие изменения контента.
type SessionQuestion struct {
	QuestionID    uint            `json:"question_id"`
	Text          string          `json:"text"`
	Type          string          `json:"type"`
	CodeSnippet   string          `json:"code_snippet,omitempty"`
	MoreInfoLink  string          `json:"more_info_link,omitempty"`
	CorrectAnswer string          `json:"correct_answer,omitempty"` // только для free_text
	Options       []SessionOption `json:"options,omitempty"`
}

// CorrectOptionIDs возвращает ID вариантов снимка, помеченных правильными
func (q *SessionQuestion) CorrectOptionIDs() []uint {
	ids := make([]uint, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// HasOption проверяет, принадлежит ли вариант с данным ID снимку вопроса
func (q *SessionQuestion) HasOption(optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// SessionAnswer - ответ на один вопрос сессии. Форма зависит от типа вопроса:
// single_choice использует SelectedID, multi_select - SelectedIDs,
// free_text - Text. Записи перезаписываются, но никогда не удаляются.
type SessionAnswer struct {
	SelectedID  *uint  `json:"selected_id,omitempty"`
	SelectedIDs []uint `json:"selected_ids"`
	Text        string `json:"text"`
}

// IsEmpty сообщает, дан ли по ответу хоть какой-то ввод
func (a *SessionAnswer) IsEmpty() bool {
	return a.SelectedID == nil && len(a.SelectedIDs) == 0 && a.Text == ""
}

// QuizSession - эфемерное состояние одной попытки пользователя.
// Сериализуется в хранилище по токену, загружается в начале каждой
// операции и сохраняется в конце. Машина состояний:
// NotStarted -> InProgress -> Submitted (терминальное, сессия удаляется).
//
// Инвариант: len(Answers) == len(Questions) с момента старта и до конца -
// записи меняют форму и значение, но множество ключей не меняется.
type QuizSession struct {
	Token           string            `json:"token"`
	QuizID          uint              `json:"quiz_id"`
	CourseID        *uint             `json:"course_id,omitempty"`
	UserID          uint              `json:"user_id"`
	AttemptNumber   int               `json:"attempt_number"`
	ClientIP        string            `json:"client_ip"`
	Questions       []SessionQuestion `json:"questions"`
	Answers         []SessionAnswer   `json:"answers"`
	CurrentIndex    int               `json:"current_index"`
	AllowNavigation bool              `json:"allow_navigation"`
	// Режим времени разрешён один раз при старте:
	// TotalDurationSec > 0 - отсчёт на всю викторину, пер-вопросный отключён;
	// иначе PerQuestionSec - отсчёт на вопрос, сбрасывается при смене вопроса.
	TotalDurationSec  int       `json:"total_duration_sec"`
	PerQuestionSec    int       `json:"per_question_sec"`
	StartedAt         time.Time `json:"started_at"`
	QuestionStartedAt time.Time `json:"question_started_at"`
}

// QuestionCount возвращает количество вопросов в сессии
func (s *QuizSession) QuestionCount() int {
	return len(s.Questions)
}

// IsLastQuestion проверяет, находится ли сессия на последнем вопросе
func (s *QuizSession) IsLastQuestion() bool {
	return s.CurrentIndex == len(s.Questions)-1
}

// RemainingSecondsForCurrentQuestion возвращает остаток пер-вопросного
// таймера на момент now; -1, если действует отсчёт на всю викторину.
func (s *QuizSession) RemainingSecondsForCurrentQuestion(now time.Time) int {
	if s.TotalDurationSec > 0 {
		return -1
	}
	remaining := s.PerQuestionSec - int(now.Sub(s.QuestionStartedAt).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RemainingTotalSeconds возвращает остаток общего таймера на момент now;
// -1, если действует пер-вопросный режим.
func (s *QuizSession) RemainingTotalSeconds(now time.Time) int {
	if s.TotalDurationSec <= 0 {
		return -1
	}
	remaining := s.TotalDurationSec - int(now.Sub(s.StartedAt).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
