package entity

import (
	"time"
)

// Test представляет сохранённую попытку прохождения викторины.
// Создаётся атомарно при отправке сессии вместе со своими ответами:
// сначала с result = 0, затем result один раз патчится суммой
// правильных ответов (двухфазная запись).
//
// Инварианты: AttemptNumber - порядковый номер (с 1) среди попыток
// пользователя по этой викторине, уникален для пары (user_id, quiz_id);
// 0 <= Result <= TotalQuestions на момент попытки.
type Test struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index;uniqueIndex:idx_user_quiz_attempt" json:"user_id"`
	QuizID         uint      `gorm:"not null;index;uniqueIndex:idx_user_quiz_attempt" json:"quiz_id"`
	Result         int       `gorm:"not null;default:0" json:"result"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	TimeSpentSec   int       `gorm:"not null;default:0" json:"time_spent_sec"`
	AttemptNumber  int       `gorm:"not null;uniqueIndex:idx_user_quiz_attempt" json:"attempt_number"`
	IPAddress      string    `gorm:"size:45;not null;default:''" json:"ip_address"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Test) TableName() string {
	return "tests"
}

// ScorePercent возвращает результат попытки в процентах (0-100)
func (t *Test) ScorePercent() float64 {
	if t.TotalQuestions == 0 {
		return 0
	}
	return float64(t.Result) / float64(t.TotalQuestions) * 100
}

// IsPerfect проверяет, все ли ответы попытки правильные
func (t *Test) IsPerfect() bool {
	return t.TotalQuestions > 0 && t.Result == t.TotalQuestions
}
