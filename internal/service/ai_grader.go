package service

import (
	"context"
)

// AIGradeResult - структурированный ответ внешнего AI-оценщика заданий
type AIGradeResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// AIGrader - внешний коллаборатор AI-оценки сдач. Система сохраняет
// возвращённое как есть и не интерпретирует ошибки; ретраи - забота
// вызывающей стороны.
type AIGrader interface {
	GradeSubmission(ctx context.Context, assignment string, content string, maxPoints int) (*AIGradeResult, error)
}

// NoopAIGrader используется, когда AI-оценка выключена
type NoopAIGrader struct{}

// GradeSubmission возвращает nil-результат: сдача остаётся ждать ручной оценки
func (g *NoopAIGrader) GradeSubmission(ctx context.Context, assignment string, content string, maxPoints int) (*AIGradeResult, error) {
	return nil, nil
}
