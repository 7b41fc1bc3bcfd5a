// Package scoring реализует чистую оценку ответов по типу вопроса.
// Evaluate не имеет побочных эффектов и никогда не возвращает ошибку:
// неизвестный тип вопроса оценивается как неправильный ответ, чтобы
// отправка сессии гарантированно завершалась.
package scoring

import (
	"strings"

	"github.com/yourusername/lms-api/internal/domain/entity"
)

// Evaluate вычисляет вердикт для нормализованного ответа на вопрос сессии:
//   - single_choice: правильный, если выбранный ID совпадает с ID варианта,
//     помеченного правильным; отсутствие выбора всегда неправильно;
//   - multi_select: правильный только при точном равенстве множеств
//     (не надмножество и не подмножество); пустой выбор правильный лишь
//     при пустом эталонном множестве (контентный edge case);
//   - free_text: правильный при нечувствительном к регистру сравнении
//     после обрезки пробелов, без частичных совпадений.
func Evaluate(question *entity.SessionQuestion, answer *entity.SessionAnswer) bool {
	switch question.Type {
	case entity.QuestionTypeSingleChoice:
		return evaluateSingleChoice(question, answer)
	case entity.QuestionTypeMultiSelect:
		return evaluateMultiSelect(question, answer)
	case entity.QuestionTypeFreeText:
		return evaluateFreeText(question, answer)
	default:
		// Неизвестный тип не падает, а просто не засчитывается
		return false
	}
}

func evaluateSingleChoice(question *entity.SessionQuestion, answer *entity.SessionAnswer) bool {
	if answer.SelectedID == nil {
		return false
	}
	correct := question.CorrectOptionIDs()
	if len(correct) != 1 {
		// Некорректно сформированный вопрос не засчитывается
		return false
	}
	return *answer.SelectedID == correct[0]
}

func evaluateMultiSelect(question *entity.SessionQuestion, answer *entity.SessionAnswer) bool {
	correctSet := make(map[uint]struct{})
	for _, id := range question.CorrectOptionIDs() {
		correctSet[id] = struct{}{}
	}
	// Дубликаты во входе схлопываются: сравниваются именно множества
	selectedSet := make(map[uint]struct{})
	for _, id := range answer.SelectedIDs {
		selectedSet[id] = struct{}{}
	}

	if len(selectedSet) != len(correctSet) {
		return false
	}
	for id := range selectedSet {
		if _, ok := correctSet[id]; !ok {
			return false
		}
	}
	return true
}

func evaluateFreeText(question *entity.SessionQuestion, answer *entity.SessionAnswer) bool {
	submitted := strings.TrimSpace(answer.Text)
	expected := strings.TrimSpace(question.CorrectAnswer)
	if expected == "" {
		return false
	}
	return strings.EqualFold(submitted, expected)
}
