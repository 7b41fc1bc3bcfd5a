package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены
	// (отсутствующая или неопубликованная викторина, вопрос, курс и т.д.).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных,
	// в том числе несоответствие формы ответа типу вопроса.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, параллельная отправка дублирующей попытки).
	ErrConflict = errors.New("resource state conflict")
)

// Специализации ErrForbidden для движка сессий.
// Каждое предусловие StartSession проваливается отдельной ошибкой,
// чтобы хендлер мог сообщить пользователю точную причину отказа.
var (
	// ErrQuizUnavailable - текущее время вне окна доступности викторины.
	ErrQuizUnavailable = errors.New("quiz is not available at this time")

	// ErrNotEnrolled - пользователь не записан на курс, которому принадлежит викторина.
	ErrNotEnrolled = errors.New("user is not enrolled in the course")

	// ErrMaxAttempts - исчерпан лимит отправленных попыток.
	ErrMaxAttempts = errors.New("maximum number of attempts reached")
)

// IsForbidden проверяет, относится ли ошибка к классу Forbidden (HTTP 403).
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrQuizUnavailable) ||
		errors.Is(err, ErrNotEnrolled) ||
		errors.Is(err, ErrMaxAttempts)
}
