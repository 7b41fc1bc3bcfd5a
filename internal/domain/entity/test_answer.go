package entity

import (
	"time"
)

// TestAnswer представляет сохранённый ответ на один вопрос попытки.
// OptionID заполняется для single_choice; для multi_select выбранные
// варианты нормализуются в SelectedOptionIDs (JSONB-множество);
// UserAnswerText хранит ввод для free_text. Строка создаётся вместе со
// своей попыткой, IsCorrect патчится после вычисления вердикта.
type TestAnswer struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TestID            uint      `gorm:"not null;index" json:"test_id"`
	QuestionID        uint      `gorm:"not null;index" json:"question_id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	OptionID          *uint     `json:"option_id,omitempty"`
	SelectedOptionIDs UintArray `gorm:"type:jsonb;not null" json:"selected_option_ids"`
	UserAnswerText    string    `gorm:"size:1000;not null;default:''" json:"user_answer_text,omitempty"`
	IsCorrect         bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TestAnswer) TableName() string {
	return "test_answers"
}
