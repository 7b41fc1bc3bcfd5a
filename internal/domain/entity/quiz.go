package entity

import (
	"time"
)

// Позиции навигатора вопросов (чисто отображаемое свойство)
const (
	NavigatorPositionTop    = "top"
	NavigatorPositionBottom = "bottom"
	NavigatorPositionLeft   = "left"
	NavigatorPositionRight  = "right"
)

// DefaultPerQuestionSeconds - таймер на вопрос по умолчанию,
// когда у викторины не задан ни один из режимов времени.
const DefaultPerQuestionSeconds = 60

// Quiz представляет определение викторины: набор вопросов плюс политика
// времени, попыток и навигации. Активен максимум один режим времени:
// TotalDurationSec (отсчёт на всю викторину) ИЛИ DurationPerQuestionSec
// (отсчёт на каждый вопрос, сбрасывается при смене вопроса).
type Quiz struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	Title                   string     `gorm:"size:200;not null" json:"title"`
	Description             string     `gorm:"size:1000;not null;default:''" json:"description"`
	IsPublished             bool       `gorm:"not null;default:false;index" json:"is_published"`
	CourseID                *uint      `gorm:"index" json:"course_id,omitempty"`
	AttemptsAllowed         int        `gorm:"not null;default:3" json:"attempts_allowed"`
	TotalDurationSec        int        `gorm:"not null;default:0" json:"total_duration_sec"`
	DurationPerQuestionSec  int        `gorm:"not null;default:0" json:"duration_per_question_sec"`
	ShowOneQuestionAtATime  bool       `gorm:"not null;default:true" json:"show_one_question_at_a_time"`
	AllowQuestionNavigation bool       `gorm:"not null;default:true" json:"allow_question_navigation"`
	NavigatorPosition       string     `gorm:"size:10;not null;default:'bottom'" json:"navigator_position"`
	ShowProgressBar         bool       `gorm:"not null;default:true" json:"show_progress_bar"`
	AvailableFrom           *time.Time `json:"available_from,omitempty"`
	AvailableUntil          *time.Time `json:"available_until,omitempty"`
	Questions               []Question `gorm:"many2many:quiz_questions" json:"questions,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// UsesTotalTimer сообщает, действует ли отсчёт на всю викторину.
// Режим разрешается один раз при старте сессии: заданный TotalDurationSec
// отключает пер-вопросный таймер.
func (q *Quiz) UsesTotalTimer() bool {
	return q.TotalDurationSec > 0
}

// PerQuestionSeconds возвращает действующий таймер на вопрос
// (60 секунд, если не задан явно).
func (q *Quiz) PerQuestionSeconds() int {
	if q.DurationPerQuestionSec > 0 {
		return q.DurationPerQuestionSec
	}
	return DefaultPerQuestionSeconds
}

// IsAvailableAt проверяет, попадает ли момент t в окно доступности викторины.
// Незаданная граница окна не ограничивает.
func (q *Quiz) IsAvailableAt(t time.Time) bool {
	if q.AvailableFrom != nil && t.Before(*q.AvailableFrom) {
		return false
	}
	if q.AvailableUntil != nil && t.After(*q.AvailableUntil) {
		return false
	}
	return true
}

// HasValidTiming проверяет инвариант: активен максимум один режим времени
func (q *Quiz) HasValidTiming() bool {
	return !(q.TotalDurationSec > 0 && q.DurationPerQuestionSec > 0)
}
