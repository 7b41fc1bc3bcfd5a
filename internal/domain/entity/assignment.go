package entity

import (
	"time"
)

// Статусы сдачи задания
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusGraded    = "graded"
	SubmissionStatusApproved  = "approved"
	SubmissionStatusRejected  = "rejected"
)

// Assignment представляет задание курса
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CourseID    uint       `gorm:"not null;index" json:"course_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	MaxPoints   int        `gorm:"not null;default:100" json:"max_points"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentSubmission представляет сдачу задания пользователем.
// Оценка выставляется вручную (Score) либо внешним AI-коллаборатором
// (AIScore + Feedback); система сохраняет возвращённое как есть,
// не интерпретируя и не ретраяя ошибки коллаборатора.
type AssignmentSubmission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;index" json:"assignment_id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Content      string     `gorm:"type:text;not null;default:''" json:"content"`
	Status       string     `gorm:"size:20;not null;default:'submitted';index" json:"status"`
	Score        *float64   `json:"score,omitempty"`
	AIScore      *float64   `json:"ai_score,omitempty"`
	Feedback     string     `gorm:"type:text;not null;default:''" json:"feedback,omitempty"`
	GradedAt     *time.Time `json:"graded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}

// IsGraded проверяет, учитывается ли сдача в агрегации оценок
func (s *AssignmentSubmission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded || s.Status == SubmissionStatusApproved
}

// FinalScore возвращает действующую оценку: ручная имеет приоритет над AI
func (s *AssignmentSubmission) FinalScore() *float64 {
	if s.Score != nil {
		return s.Score
	}
	return s.AIScore
}
