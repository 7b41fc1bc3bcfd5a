package entity

import (
	"time"
)

// UserStats представляет игровую статистику пользователя:
// накопленный опыт и счётчик ежедневной активности (streak).
type UserStats struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	XPTotal          int        `gorm:"not null;default:0;index" json:"xp_total"`
	CurrentStreak    int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"not null;default:0" json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (UserStats) TableName() string {
	return "user_stats"
}

// ApplyDailyActivity обновляет streak по дате активности day
// (сравнение по календарным дням в UTC):
//   - активность уже записана сегодня - no-op;
//   - последняя активность вчера - инкремент;
//   - разрыв больше одного дня (или первая активность) - сброс на 1.
func (s *UserStats) ApplyDailyActivity(day time.Time) {
	today := day.UTC().Truncate(24 * time.Hour)

	if s.LastActivityDate != nil {
		last := s.LastActivityDate.UTC().Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			return
		case today.Sub(last) == 24*time.Hour:
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	} else {
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActivityDate = &today
}
