package repository

import (
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// TestRepository определяет методы для работы с попытками и их ответами
type TestRepository interface {
	// CountSubmitted возвращает количество отправленных попыток пользователя
	// по викторине. Брошенные (не отправленные) сессии записей не оставляют
	// и потому в счёт не попадают.
	CountSubmitted(userID, quizID uint) (int64, error)

	// SubmitAttempt атомарно сохраняет попытку в одной транзакции:
	// создаёт Test с result = 0, затем для каждого ответа создаёт строку
	// и сразу патчит её is_correct соответствующим вердиктом, в конце
	// патчит result попытки суммой правильных (двухфазная запись строк
	// до известности вердиктов сохраняется намеренно - строки Attempt и
	// Answer связываются раньше, чем вычислена правильность).
	// Уникальный индекс (user_id, quiz_id, attempt_number) закрывает гонку
	// параллельной отправки: нарушение уникальности мапится на ErrConflict.
	SubmitAttempt(test *entity.Test, answers []entity.TestAnswer, verdicts []bool) error

	GetByID(id uint) (*entity.Test, error)
	GetAnswers(testID uint) ([]entity.TestAnswer, error)
	// ListByUserAndQuizIDs возвращает попытки пользователя по перечисленным
	// викторинам (источник quizAverage для агрегации оценок)
	ListByUserAndQuizIDs(userID uint, quizIDs []uint) ([]entity.Test, error)
	ListByUser(userID uint, limit, offset int) ([]entity.Test, int64, error)
	// CountDistinctQuizzes возвращает число различных викторин,
	// по которым у пользователя есть отправленные попытки
	CountDistinctQuizzes(userID uint) (int64, error)
	// CountPerfect возвращает число попыток с максимальным результатом
	CountPerfect(userID uint) (int64, error)
}
