package entity

import (
	"time"
)

// Критерии выдачи бейджей. Каждый критерий сравнивает одну агрегатную
// метрику пользователя с порогом Threshold.
const (
	BadgeCriteriaXPTotal           = "xp_total"
	BadgeCriteriaQuizzesCompleted  = "quizzes_completed"
	BadgeCriteriaStreakDays        = "streak_days"
	BadgeCriteriaPerfectScores     = "perfect_scores"
	BadgeCriteriaAssignmentsGraded = "assignments_graded"
)

// Badge представляет определение достижения
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500;not null;default:''" json:"description"`
	Criteria    string    `gorm:"size:30;not null" json:"criteria"`
	Threshold   int       `gorm:"not null;default:0" json:"threshold"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Badge) TableName() string {
	return "badges"
}

// UserBadge представляет выданный пользователю бейдж.
// Уникальный индекс пары гарантирует идемпотентность выдачи:
// уже полученный бейдж никогда не выдаётся повторно.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
}

// TableName определяет имя таблицы для GORM
func (UserBadge) TableName() string {
	return "user_badges"
}
