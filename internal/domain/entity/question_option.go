package entity

import (
	"time"
)

// QuestionOption представляет вариант ответа на вопрос с выбором
type QuestionOption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Text       string    `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"-"` // Скрыто от клиента
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuestionOption) TableName() string {
	return "question_options"
}
