package events

import (
	"time"
)

// Виды активности для ActivityRecorded
const (
	ActivityAssignmentSubmitted = "assignment_submitted"
	ActivityDiscussionPost      = "discussion_post"
)

// Event - типизированное доменное событие.
// События публикуются после коммита породившей их транзакции и
// потребляются подписчиками в режиме fire-and-forget.
type Event interface {
	Name() string
}

// AttemptSubmitted публикуется движком сессий после сохранения попытки
type AttemptSubmitted struct {
	AttemptID uint
	UserID    uint
	QuizID    uint
	CourseID  *uint // nil для викторин вне курса
	Result    int
	Total     int
}

// Name возвращает имя события
func (AttemptSubmitted) Name() string { return "attempt.submitted" }

// SubmissionGraded публикуется при переходе сдачи задания
// в оценённый/одобренный статус
type SubmissionGraded struct {
	SubmissionID uint
	AssignmentID uint
	UserID       uint
	CourseID     uint
	Score        float64
	MaxPoints    int
}

// Name возвращает имя события
func (SubmissionGraded) Name() string { return "submission.graded" }

// ActivityRecorded публикуется для прочей XP-активности
// (сдача задания, пост в обсуждении)
type ActivityRecorded struct {
	UserID     uint
	Kind       string
	OccurredAt time.Time
}

// Name возвращает имя события
func (ActivityRecorded) Name() string { return "activity.recorded" }
