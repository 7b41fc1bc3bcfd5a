package repository

import (
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// GradeRepository определяет методы для работы с агрегированными оценками
type GradeRepository interface {
	GetByUserAndCourse(userID, courseID uint) (*entity.Grade, error)
	ListByCourse(courseID uint) ([]entity.Grade, error)

	// SaveCalculated пересчитывает строку оценки пары (user, course)
	// внутри транзакции: строка берётся под блокировку (SELECT ... FOR
	// UPDATE, с ленивым созданием при отсутствии), затем compute заполняет
	// производные поля уже под блокировкой, затем они записываются.
	// Так параллельные пересчёты одной пары сериализуются целиком -
	// включая чтение попыток и сдач - и поздний пересчёт видит данные
	// раннего. Метрика участия заблокированной строки не перезаписывается.
	SaveCalculated(userID, courseID uint, compute func(grade *entity.Grade) error) (*entity.Grade, error)

	// SetParticipation сохраняет внешне вычисленную метрику участия
	// (оценка активности в обсуждениях - непрозрачный вход)
	SetParticipation(userID, courseID uint, score *float64) error
}
