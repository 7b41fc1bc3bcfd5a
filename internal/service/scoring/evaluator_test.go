package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// ============================================================================
// Хелперы для построения снимков вопросов
// ============================================================================

func singleChoiceQuestion(correctID uint, optionIDs ...uint) *entity.SessionQuestion {
	q := &entity.SessionQuestion{
		QuestionID: 1,
		Text:       "Вопрос с одним вариантом",
		Type:       entity.QuestionTypeSingleChoice,
	}
	for _, id := range optionIDs {
		q.Options = append(q.Options, entity.SessionOption{ID: id, IsCorrect: id == correctID})
	}
	return q
}

func multiSelectQuestion(correctIDs []uint, optionIDs ...uint) *entity.SessionQuestion {
	correct := make(map[uint]bool, len(correctIDs))
	for _, id := range correctIDs {
		correct[id] = true
	}
	q := &entity.SessionQuestion{
		QuestionID: 2,
		Text:       "Вопрос с несколькими вариантами",
		Type:       entity.QuestionTypeMultiSelect,
	}
	for _, id := range optionIDs {
		q.Options = append(q.Options, entity.SessionOption{ID: id, IsCorrect: correct[id]})
	}
	return q
}

func freeTextQuestion(correctAnswer string) *entity.SessionQuestion {
	return &entity.SessionQuestion{
		QuestionID:    3,
		Text:          "Вопрос со свободным ответом",
		Type:          entity.QuestionTypeFreeText,
		CorrectAnswer: correctAnswer,
	}
}

func uintPtr(v uint) *uint {
	return &v
}

// ============================================================================
// single_choice
// ============================================================================

func TestEvaluate_SingleChoice(t *testing.T) {
	question := singleChoiceQuestion(20, 10, 20, 30)

	tests := []struct {
		name   string
		answer entity.SessionAnswer
		want   bool
	}{
		{"правильный вариант", entity.SessionAnswer{SelectedID: uintPtr(20)}, true},
		{"неправильный вариант", entity.SessionAnswer{SelectedID: uintPtr(10)}, false},
		{"отсутствие выбора", entity.SessionAnswer{}, false},
		{"чужой ID варианта", entity.SessionAnswer{SelectedID: uintPtr(99)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(question, &tt.answer))
		})
	}
}

func TestEvaluate_SingleChoice_MalformedQuestion(t *testing.T) {
	// Вопрос без правильного варианта не засчитывается независимо от выбора
	noCorrect := singleChoiceQuestion(0, 10, 20)
	assert.False(t, Evaluate(noCorrect, &entity.SessionAnswer{SelectedID: uintPtr(10)}))

	// Вопрос с двумя правильными вариантами тоже некорректен для single_choice
	twoCorrect := singleChoiceQuestion(10, 10, 20)
	twoCorrect.Options[1].IsCorrect = true
	assert.False(t, Evaluate(twoCorrect, &entity.SessionAnswer{SelectedID: uintPtr(10)}))
}

// ============================================================================
// multi_select: строгое равенство множеств
// ============================================================================

func TestEvaluate_MultiSelect(t *testing.T) {
	// Правильное множество {1, 2} из вариантов {1, 2, 3, 4}
	question := multiSelectQuestion([]uint{1, 2}, 1, 2, 3, 4)

	tests := []struct {
		name     string
		selected []uint
		want     bool
	}{
		{"точное совпадение", []uint{1, 2}, true},
		{"порядок не важен", []uint{2, 1}, true},
		{"подмножество не засчитывается", []uint{1}, false},
		{"надмножество не засчитывается", []uint{1, 2, 3}, false},
		{"непересекающееся множество", []uint{3, 4}, false},
		{"пустой выбор при непустом эталоне", []uint{}, false},
		{"дубликаты схлопываются до множества", []uint{1, 1, 2}, true},
		{"дубликаты не подменяют недостающий элемент", []uint{1, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := entity.SessionAnswer{SelectedIDs: tt.selected}
			assert.Equal(t, tt.want, Evaluate(question, &answer))
		})
	}
}

func TestEvaluate_MultiSelect_EmptyCorrectSet(t *testing.T) {
	// Контентный edge case: вопрос без правильных вариантов.
	// Пустой выбор совпадает с пустым эталонным множеством.
	question := multiSelectQuestion(nil, 1, 2)

	assert.True(t, Evaluate(question, &entity.SessionAnswer{SelectedIDs: []uint{}}))
	assert.False(t, Evaluate(question, &entity.SessionAnswer{SelectedIDs: []uint{1}}))
}

// ============================================================================
// free_text: trim + case-insensitive, без частичных совпадений
// ============================================================================

func TestEvaluate_FreeText(t *testing.T) {
	question := freeTextQuestion("Paris")

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"точное совпадение", "Paris", true},
		{"регистр не важен", "pARIs", true},
		{"пробелы по краям обрезаются", "  paris  ", true},
		{"лишняя пунктуация не совпадает", "Paris.", false},
		{"частичное совпадение не засчитывается", "Par", false},
		{"пустой ввод", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := entity.SessionAnswer{Text: tt.text}
			assert.Equal(t, tt.want, Evaluate(question, &answer))
		})
	}
}

func TestEvaluate_FreeText_EmptyExpected(t *testing.T) {
	// Пустой эталонный ответ никогда не засчитывается,
	// даже при пустом вводе пользователя
	question := freeTextQuestion("")
	assert.False(t, Evaluate(question, &entity.SessionAnswer{Text: ""}))

	whitespaceOnly := freeTextQuestion("   ")
	assert.False(t, Evaluate(whitespaceOnly, &entity.SessionAnswer{Text: "   "}))
}

// ============================================================================
// Неизвестный тип вопроса
// ============================================================================

func TestEvaluate_UnknownType(t *testing.T) {
	question := &entity.SessionQuestion{
		QuestionID: 4,
		Type:       "essay",
	}
	// Неизвестный тип не паникует и не засчитывается
	assert.False(t, Evaluate(question, &entity.SessionAnswer{Text: "что угодно"}))
}
