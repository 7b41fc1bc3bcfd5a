package entity

import (
	"time"
)

// Типы вопросов
const (
	QuestionTypeSingleChoice = "single_choice"
	QuestionTypeMultiSelect  = "multi_select"
	QuestionTypeFreeText     = "free_text"
)

// Question представляет вопрос викторины.
// Для типов с вариантами (single_choice, multi_select) правильность задаётся
// флагами is_correct на вариантах; для free_text - полем CorrectAnswer.
type Question struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Text          string           `gorm:"size:1000;not null" json:"text"`
	Type          string           `gorm:"size:20;not null;default:'single_choice';index" json:"type"`
	CodeSnippet   string           `gorm:"type:text;not null;default:''" json:"code_snippet,omitempty"`
	MoreInfoLink  string           `gorm:"size:500;not null;default:''" json:"more_info_link,omitempty"`
	CorrectAnswer string           `gorm:"size:500;not null;default:''" json:"-"` // Скрыто от клиента, только для free_text
	Options       []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsChoiceType проверяет, является ли вопрос вопросом с вариантами ответа
func (q *Question) IsChoiceType() bool {
	return q.Type == QuestionTypeSingleChoice || q.Type == QuestionTypeMultiSelect
}

// CorrectOptionIDs возвращает ID вариантов, помеченных правильными
func (q *Question) CorrectOptionIDs() []uint {
	ids := make([]uint, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// HasCorrectOption проверяет наличие хотя бы одного правильного варианта
func (q *Question) HasCorrectOption() bool {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return true
		}
	}
	return false
}

// IsWellFormed проверяет инвариант контента:
// вопросы с вариантами обязаны иметь >=1 правильный вариант,
// free_text вопросы несут эталонный ответ на самом вопросе.
func (q *Question) IsWellFormed() bool {
	switch q.Type {
	case QuestionTypeSingleChoice, QuestionTypeMultiSelect:
		return len(q.Options) > 0 && q.HasCorrectOption()
	case QuestionTypeFreeText:
		return q.CorrectAnswer != ""
	default:
		return false
	}
}
