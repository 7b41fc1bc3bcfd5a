package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuiz_TimingMode(t *testing.T) {
	// Arrange: общий таймер отключает пер-вопросный
	total := &Quiz{TotalDurationSec: 600}
	assert.True(t, total.UsesTotalTimer())
	assert.True(t, total.HasValidTiming())

	// Пер-вопросный режим
	perQuestion := &Quiz{DurationPerQuestionSec: 45}
	assert.False(t, perQuestion.UsesTotalTimer())
	assert.Equal(t, 45, perQuestion.PerQuestionSeconds())
	assert.True(t, perQuestion.HasValidTiming())

	// Ни один режим не задан - действует пер-вопросный по умолчанию
	none := &Quiz{}
	assert.False(t, none.UsesTotalTimer())
	assert.Equal(t, DefaultPerQuestionSeconds, none.PerQuestionSeconds())
	assert.True(t, none.HasValidTiming())

	// Оба режима сразу - нарушение инварианта
	both := &Quiz{TotalDurationSec: 600, DurationPerQuestionSec: 45}
	assert.False(t, both.HasValidTiming())
}

func TestQuiz_IsAvailableAt(t *testing.T) {
	now := time.Now()
	hourAgo := now.Add(-time.Hour)
	hourAhead := now.Add(time.Hour)

	// Окно не задано - доступна всегда
	open := &Quiz{}
	assert.True(t, open.IsAvailableAt(now))

	// Внутри окна
	windowed := &Quiz{AvailableFrom: &hourAgo, AvailableUntil: &hourAhead}
	assert.True(t, windowed.IsAvailableAt(now))

	// До открытия
	future := &Quiz{AvailableFrom: &hourAhead}
	assert.False(t, future.IsAvailableAt(now))

	// После закрытия
	past := &Quiz{AvailableUntil: &hourAgo}
	assert.False(t, past.IsAvailableAt(now))

	// Границы окна включительны
	boundary := &Quiz{AvailableFrom: &now, AvailableUntil: &now}
	assert.True(t, boundary.IsAvailableAt(now))
}

func TestQuestion_IsWellFormed(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		want     bool
	}{
		{
			name: "single_choice с правильным вариантом",
			question: Question{
				Type: QuestionTypeSingleChoice,
				Options: []QuestionOption{
					{ID: 1, IsCorrect: true},
					{ID: 2},
				},
			},
			want: true,
		},
		{
			name: "single_choice без правильного варианта",
			question: Question{
				Type:    QuestionTypeSingleChoice,
				Options: []QuestionOption{{ID: 1}, {ID: 2}},
			},
			want: false,
		},
		{
			name:     "multi_select без вариантов",
			question: Question{Type: QuestionTypeMultiSelect},
			want:     false,
		},
		{
			name: "multi_select с двумя правильными",
			question: Question{
				Type: QuestionTypeMultiSelect,
				Options: []QuestionOption{
					{ID: 1, IsCorrect: true},
					{ID: 2, IsCorrect: true},
					{ID: 3},
				},
			},
			want: true,
		},
		{
			name:     "free_text с эталонным ответом",
			question: Question{Type: QuestionTypeFreeText, CorrectAnswer: "Paris"},
			want:     true,
		},
		{
			name:     "free_text без эталонного ответа",
			question: Question{Type: QuestionTypeFreeText},
			want:     false,
		},
		{
			name:     "неизвестный тип",
			question: Question{Type: "essay"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.question.IsWellFormed())
		})
	}
}
